package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTagCacheSize bounds the number of parsed struct tags kept in memory.
const DefaultTagCacheSize = 512

// TagCache keeps parsed struct tag values keyed by their raw text. It is
// bounded because tag text can come from arbitrary caller-defined types.
type TagCache[V any] struct {
	cache *lru.Cache[string, V]
}

// NewTagCache creates a cache holding at most size entries. A non-positive
// size falls back to DefaultTagCacheSize.
func NewTagCache[V any](size int) (*TagCache[V], error) {
	if size <= 0 {
		size = DefaultTagCacheSize
	}
	c, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &TagCache[V]{cache: c}, nil
}

func (t *TagCache[V]) Get(key string) (V, bool) {
	return t.cache.Get(key)
}

func (t *TagCache[V]) Add(key string, v V) {
	t.cache.Add(key, v)
}

// Len returns the number of cached entries.
func (t *TagCache[V]) Len() int {
	return t.cache.Len()
}

// Purge drops every cached entry.
func (t *TagCache[V]) Purge() {
	t.cache.Purge()
}
