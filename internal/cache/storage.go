package cache

import (
	"sort"
	"sync"
)

// Storage is the registry of named partitions.
type Storage struct {
	newPartition PartitionFactory
	partitions   map[string]Partition
	mutex        sync.RWMutex
}

func NewStorage(newPartition PartitionFactory) *Storage {
	if newPartition == nil {
		newPartition = NewFreecachePartitionFactory(DefaultPartitionSize)
	}
	return &Storage{
		newPartition: newPartition,
		partitions:   make(map[string]Partition),
	}
}

// Open returns the partition with name, creating it when missing.
func (s *Storage) Open(name string) Partition {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if p, ok := s.partitions[name]; ok {
		return p
	}
	p := s.newPartition(name)
	s.partitions[name] = p
	return p
}

func (s *Storage) Has(name string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.partitions[name]
	return ok
}

// Keys returns the partition names, sorted.
func (s *Storage) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.partitions))
	for name := range s.partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete drops the partition and all its entries. Reports whether it existed.
func (s *Storage) Delete(name string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, ok := s.partitions[name]
	if !ok {
		return false
	}
	p.Clear()
	delete(s.partitions, name)
	return true
}

// Match looks key up in the partition named first, then in every other
// partition in name order.
func (s *Storage) Match(key, first string) (*Entry, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if p, ok := s.partitions[first]; ok {
		if entry, found := p.Get(key); found {
			return entry, true
		}
	}

	names := make([]string, 0, len(s.partitions))
	for name := range s.partitions {
		if name != first {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if entry, found := s.partitions[name].Get(key); found {
			return entry, true
		}
	}
	return nil, false
}

// Clear deletes every partition and returns the deleted names.
func (s *Storage) Clear() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	names := make([]string, 0, len(s.partitions))
	for name, p := range s.partitions {
		p.Clear()
		names = append(names, name)
	}
	sort.Strings(names)
	s.partitions = make(map[string]Partition)
	return names
}

// EntryCounts reports the number of entries per partition.
func (s *Storage) EntryCounts() map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	counts := make(map[string]int, len(s.partitions))
	for name, p := range s.partitions {
		counts[name] = len(p.Keys())
	}
	return counts
}
