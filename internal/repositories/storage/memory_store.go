package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is the volatile KVStore adapter used in tests and as the
// fallback when no durable store can be opened, mirroring the in-memory map
// the storage wrapper falls back to when localStorage is blocked.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Load reads the value at key into out; an unreadable value reports absence.
func (s *MemoryStore) Load(_ context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, nil
	}
	return true, nil
}

// Save marshals value and stores it at key.
func (s *MemoryStore) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = string(raw)
	s.mu.Unlock()
	return nil
}

// Delete removes the value at key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// NewID returns a fresh prefixed identifier.
func (s *MemoryStore) NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// SetRaw stores a pre-encoded value verbatim, letting tests seed malformed
// payloads the decode path must tolerate.
func (s *MemoryStore) SetRaw(key, raw string) {
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
}
