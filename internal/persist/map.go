package persist

import "sync"

// MapStore is an in-memory Port used by tests and dry runs.
type MapStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMapStore returns an empty in-memory store.
func NewMapStore() *MapStore {
	return &MapStore{blobs: make(map[string][]byte)}
}

func (s *MapStore) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (s *MapStore) Save(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.blobs[key] = cp
	return nil
}

func (s *MapStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *MapStore) Close() error {
	return nil
}

// Keys returns the stored keys, for test assertions.
func (s *MapStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	return keys
}
