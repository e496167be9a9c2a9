package storage

import (
	"context"
	"errors"
)

// Common errors returned by persistent stores
var (
	// ErrNotFound is returned by Load for absent keys. Unreadable stored
	// content reads as absent too, so callers always fall back to an empty
	// default instead of handling a parse error.
	ErrNotFound = errors.New("no stored document for key")
)

// PersistentStore keeps one JSON document per named key in durable
// key-value storage. It is a pure serialization boundary: a value saved and
// loaded back must be deeply equal to the original.
type PersistentStore interface {
	// Load decodes the document stored under key into v.
	Load(ctx context.Context, key string, v any) error

	// Save serializes v and durably replaces the document under key.
	Save(ctx context.Context, key string, v any) error
}
