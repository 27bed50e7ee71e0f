package stubserver

import "sync"

// SyncMap is a map safe for concurrent use. Update gives callers an atomic
// read-modify-write, which is all the consistency the in-memory tables
// need.
type SyncMap[K comparable, V any] struct {
	m  map[K]V
	mu sync.RWMutex
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{
		m: make(map[K]V),
	}
}

func (s *SyncMap[K, V]) Load(key K) (value V, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok = s.m[key]
	return
}

func (s *SyncMap[K, V]) Store(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// Update applies f to the current value for key and stores the result,
// atomically. If f returns an error nothing is stored and the error is
// returned.
func (s *SyncMap[K, V]) Update(key K, f func(value V, ok bool) (V, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.m[key]
	updated, err := f(value, ok)
	if err != nil {
		return err
	}
	s.m[key] = updated
	return nil
}

// RRange calls f for each entry under a read lock until f returns false.
func (s *SyncMap[K, V]) RRange(f func(key K, value V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.m {
		if !f(k, v) {
			break
		}
	}
}
