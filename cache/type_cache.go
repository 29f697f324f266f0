package cache

import (
	"reflect"
	"sync"
)

// TypeCache memoizes values computed per Go type. Entries are never evicted;
// type shapes are fixed for the life of the process.
type TypeCache[V any] interface {
	Load(t reflect.Type) (V, bool)
	Store(t reflect.Type, v V)
	Len() int
	Clear()
}

type memTypeCache[V any] struct {
	data sync.Map // map[reflect.Type]V
}

// NewTypeCache returns a TypeCache backed by sync.Map. Concurrent first stores
// for the same type are allowed; the last one wins.
func NewTypeCache[V any]() TypeCache[V] {
	return &memTypeCache[V]{}
}

func (c *memTypeCache[V]) Load(t reflect.Type) (V, bool) {
	var zero V
	v, ok := c.data.Load(t)
	if !ok {
		return zero, false
	}
	if v == nil {
		return zero, true
	}
	return v.(V), true
}

func (c *memTypeCache[V]) Store(t reflect.Type, v V) {
	c.data.Store(t, v)
}

func (c *memTypeCache[V]) Len() int {
	n := 0
	c.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *memTypeCache[V]) Clear() {
	c.data.Range(func(key, _ any) bool {
		c.data.Delete(key)
		return true
	})
}
