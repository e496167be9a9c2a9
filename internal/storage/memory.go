package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// MemoryStore keeps documents in process memory. Nothing survives a restart;
// it exists for tests and for running the storefront without a data
// directory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, key string, v any) error {
	m.mu.RLock()
	data, exists := m.docs[key]
	m.mu.RUnlock()

	if !exists {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("MemoryStore %s is malformed, treating as absent: %v", key, err)
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	m.mu.Lock()
	m.docs[key] = data
	m.mu.Unlock()
	return nil
}
