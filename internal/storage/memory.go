package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and as a throwaway
// storage area. It honors the same watch semantics as SQLiteStore, minus
// the cross-process poller (there is no second process to watch).
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	watch *watchSet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		watch: newWatchSet(),
	}
}

func (s *MemoryStore) Read(_ context.Context, namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[namespace]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, namespace string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.data[namespace] = stored
	s.mu.Unlock()

	s.watch.notify(namespace)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	_, existed := s.data[namespace]
	delete(s.data, namespace)
	s.mu.Unlock()

	if existed {
		s.watch.notify(namespace)
	}
	return nil
}

func (s *MemoryStore) Watch(namespace string) (<-chan struct{}, func()) {
	return s.watch.add(namespace)
}

func (s *MemoryStore) Close() error {
	return nil
}
