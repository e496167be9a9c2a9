package cart

import (
	"context"
	"errors"

	"faunastore/internal/storage"
)

// failingStore implements storage.PersistentStore with writes that always
// fail, for testing that in-memory state stays authoritative.
type failingStore struct {
	saveCalls int
}

func (f *failingStore) Load(_ context.Context, _ string, _ any) error {
	return storage.ErrNotFound
}

func (f *failingStore) Save(_ context.Context, _ string, _ any) error {
	f.saveCalls++
	return errors.New("disk full")
}
