package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps encoded values in memory. Values round-trip through JSON
// so callers never share memory with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	s.mu.RLock()
	b, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (s *MemoryStore) Set(_ context.Context, key string, v any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
