package storage

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is used in tests and with the "memory" backend (state is lost on restart).
type MemoryStore struct {
	values map[string][]byte
	mutex  sync.Mutex

	// LoadErr and SaveErr, when set, are returned by every Load / Save
	LoadErr error
	SaveErr error
	Saves   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (ms *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if ms.LoadErr != nil {
		return nil, ms.LoadErr
	}
	value, ok := ms.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (ms *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.Saves++
	if ms.SaveErr != nil {
		return ms.SaveErr
	}
	ms.values[key] = append([]byte(nil), value...)
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
