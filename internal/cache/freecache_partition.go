package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/coocood/freecache"
)

var _ Partition = (*FreecachePartition)(nil)

const megabyte = 1024 * 1024

const (
	DefaultPartitionSize = 128 * megabyte
	// freecache refuses to allocate less
	minPartitionSize = 512 * 1024
	// freecache limits key+value of one record to size/1024 minus its record header,
	// the slack covers that header
	recordSlack = 64
	// body chunk keys are "<key>\x00<n>", never a valid request key
	chunkSeparator = "\x00"
)

// entryMeta is the stored record of an entry, the body lives in raw chunks next to it.
type entryMeta struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Size   int         `json:"size"`
	Chunks int         `json:"chunks"`
}

// FreecachePartition stores entries in a freecache instance. Bodies are split into
// raw chunks so a single entry may be far bigger than one freecache record.
// Entries never expire; under memory pressure freecache evicts records, and an entry
// missing any of its chunks reads as a miss.
type FreecachePartition struct {
	name      string
	size      int
	chunkSize int
	cache     *freecache.Cache
	// Put and Get span several records
	mutex sync.RWMutex
}

func NewFreecachePartition(name string, size int) *FreecachePartition {
	if size <= 0 {
		size = DefaultPartitionSize
	}
	size = max(size, minPartitionSize)
	return &FreecachePartition{
		name:      name,
		size:      size,
		chunkSize: size/1024 - recordSlack,
		cache:     freecache.NewCache(size),
	}
}

// NewFreecachePartitionFactory returns a factory creating partitions of the given size.
func NewFreecachePartitionFactory(size int) PartitionFactory {
	return func(name string) Partition {
		return NewFreecachePartition(name, size)
	}
}

func (fp *FreecachePartition) Name() string {
	return fp.name
}

// MaxBodySize is the biggest body Put accepts, a quarter of the partition.
func (fp *FreecachePartition) MaxBodySize() int {
	return fp.size / 4
}

func chunkKey(key string, n int) []byte {
	return []byte(key + chunkSeparator + strconv.Itoa(n))
}

func (fp *FreecachePartition) Get(key string) (*Entry, bool) {
	fp.mutex.RLock()
	defer fp.mutex.RUnlock()

	meta, found := fp.getMeta(key)
	if !found {
		return nil, false
	}

	body := make([]byte, 0, meta.Size)
	for n := range meta.Chunks {
		chunk, err := fp.cache.Get(chunkKey(key, n))
		if err != nil {
			return nil, false
		}
		body = append(body, chunk...)
	}
	if len(body) != meta.Size {
		return nil, false
	}

	return &Entry{
		Status: meta.Status,
		Header: meta.Header,
		Body:   body,
	}, true
}

func (fp *FreecachePartition) getMeta(key string) (*entryMeta, bool) {
	raw, err := fp.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	meta := &entryMeta{}
	if err := json.Unmarshal(raw, meta); err != nil {
		return nil, false
	}
	return meta, true
}

func (fp *FreecachePartition) Put(key string, entry *Entry) error {
	if len(entry.Body) > fp.MaxBodySize() {
		return fmt.Errorf("%w: [%s] %d bytes, max %d", ErrEntryTooLarge, key, len(entry.Body), fp.MaxBodySize())
	}
	chunkSize := fp.chunkSize - len(key)
	if chunkSize <= 0 {
		return fmt.Errorf("%w: key [%s]", ErrEntryTooLarge, key)
	}

	fp.mutex.Lock()
	defer fp.mutex.Unlock()

	fp.deleteLocked(key)

	chunks := 0
	for offset := 0; offset < len(entry.Body); offset += chunkSize {
		end := min(offset+chunkSize, len(entry.Body))
		if err := fp.set(chunkKey(key, chunks), entry.Body[offset:end], key); err != nil {
			fp.deleteChunks(key, chunks)
			return err
		}
		chunks++
	}

	raw, err := json.Marshal(entryMeta{
		Status: entry.Status,
		Header: entry.Header,
		Size:   len(entry.Body),
		Chunks: chunks,
	})
	if err != nil {
		fp.deleteChunks(key, chunks)
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := fp.set([]byte(key), raw, key); err != nil {
		fp.deleteChunks(key, chunks)
		return err
	}
	return nil
}

func (fp *FreecachePartition) set(recordKey, value []byte, key string) error {
	if err := fp.cache.Set(recordKey, value, 0); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
			return fmt.Errorf("%w: [%s] record of %d bytes", ErrEntryTooLarge, key, len(recordKey)+len(value))
		}
		return fmt.Errorf("freecache set: %w", err)
	}
	return nil
}

// deleteLocked drops a previous entry stored under key, chunks included.
func (fp *FreecachePartition) deleteLocked(key string) {
	meta, found := fp.getMeta(key)
	if !found {
		return
	}
	fp.cache.Del([]byte(key))
	fp.deleteChunks(key, meta.Chunks)
}

func (fp *FreecachePartition) deleteChunks(key string, chunks int) {
	for n := range chunks {
		fp.cache.Del(chunkKey(key, n))
	}
}

func (fp *FreecachePartition) Keys() []string {
	fp.mutex.RLock()
	defer fp.mutex.RUnlock()

	var keys []string
	it := fp.cache.NewIterator()
	for e := it.Next(); e != nil; e = it.Next() {
		key := string(e.Key)
		if strings.Contains(key, chunkSeparator) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (fp *FreecachePartition) Clear() {
	fp.mutex.Lock()
	defer fp.mutex.Unlock()
	fp.cache.Clear()
}
