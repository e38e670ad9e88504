package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store, used in tests and as a fallback
// when no persistent backend is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)
	return Entry{Data: data, Timestamp: entry.Timestamp}, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry) error {
	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Data: data, Timestamp: entry.Timestamp}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
