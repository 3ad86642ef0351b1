package kvstore

import "sync"

// MemStore is an in-memory Store for tests and for sessions where the
// state directory is unavailable.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites makes Set and Delete return FailErr, simulating a
	// disabled or full storage backend.
	FailWrites bool
	// FailReads makes Get return FailErr.
	FailReads bool
	// FailErr is the error returned when a Fail* flag is set.
	FailErr error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads {
		return nil, s.FailErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.FailErr
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.FailErr
	}
	delete(s.data, key)
	return nil
}
