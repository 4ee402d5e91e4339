package cache

import (
	"errors"
	"net/url"
)

var ErrEntryTooLarge = errors.New("cache entry too large")

// Partition is a named cache holding response entries keyed by request URL.
type Partition interface {
	Name() string
	Get(key string) (*Entry, bool)
	Put(key string, entry *Entry) error
	Keys() []string
	Clear()
}

// PartitionFactory creates an empty partition with the given name.
type PartitionFactory func(name string) Partition

// RequestKey is the cache key of a same origin URL: its path and query, without fragment.
// Only same origin responses are ever cached, so the origin is left out.
func RequestKey(u *url.URL) string {
	key := u.EscapedPath()
	if key == "" {
		key = "/"
	}
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}
