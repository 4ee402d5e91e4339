package cache

import (
	"sort"
	"sync"
)

var _ Partition = (*MapPartition)(nil)

// MapPartition is a plain map partition, used in tests.
type MapPartition struct {
	name    string
	entries map[string]*Entry
	mutex   sync.Mutex

	// PutErr, when set, is returned by every Put
	PutErr error
}

func NewMapPartition(name string) *MapPartition {
	return &MapPartition{
		name:    name,
		entries: make(map[string]*Entry),
	}
}

func NewMapPartitionFactory() PartitionFactory {
	return func(name string) Partition {
		return NewMapPartition(name)
	}
}

func (mp *MapPartition) Name() string {
	return mp.name
}

func (mp *MapPartition) Get(key string) (*Entry, bool) {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	if entry, ok := mp.entries[key]; ok {
		return entry.Clone(), true
	}
	return nil, false
}

func (mp *MapPartition) Put(key string, entry *Entry) error {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	if mp.PutErr != nil {
		return mp.PutErr
	}
	mp.entries[key] = entry.Clone()
	return nil
}

func (mp *MapPartition) Keys() []string {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	keys := make([]string, 0, len(mp.entries))
	for k := range mp.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (mp *MapPartition) Clear() {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()

	mp.entries = make(map[string]*Entry)
}
