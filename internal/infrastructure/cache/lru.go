// Package cache provides bounded in-memory caches.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a thread-safe least recently used cache bounded by the total
// cost of its values. Cost defaults to one per entry, which bounds the
// entry count instead.
//
// A value costing more than the whole budget is not stored.
type LRU[K comparable, V any] struct {
	maxCost int64
	cost    func(V) int64

	mu    sync.Mutex
	used  int64
	items map[K]*list.Element
	order *list.List // Front = most recent
}

type entry[K comparable, V any] struct {
	key   K
	value V
	cost  int64
}

// NewLRU creates a cache holding up to maxCost. A non-positive maxCost
// is treated as 1.
func NewLRU[K comparable, V any](maxCost int64, cost func(V) int64) *LRU[K, V] {
	if maxCost <= 0 {
		maxCost = 1
	}
	if cost == nil {
		cost = func(V) int64 { return 1 }
	}
	return &LRU[K, V]{
		maxCost: maxCost,
		cost:    cost,
		items:   make(map[K]*list.Element),
		order:   list.New(),
	}
}

// NewStringLRU bounds a cache of strings by their total length in bytes.
func NewStringLRU[K comparable](maxBytes int64) *LRU[K, string] {
	return NewLRU[K](maxBytes, func(s string) int64 { return int64(len(s)) })
}

// Get returns the value for key and marks it recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set stores value under key, evicting least recently used entries until
// the budget fits. It reports whether the value was stored.
func (c *LRU[K, V]) Set(key K, value V) bool {
	cost := c.cost(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	if cost > c.maxCost {
		return false
	}

	for c.used+cost > c.maxCost {
		c.removeElement(c.order.Back())
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, cost: cost})
	c.used += cost
	return true
}

// Remove deletes key. Missing keys are ignored.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *LRU[K, V]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[K, V])
	c.order.Remove(elem)
	delete(c.items, e.key)
	c.used -= e.cost
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Cost returns the total cost of the stored values.
func (c *LRU[K, V]) Cost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Clear removes every entry.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.used = 0
}
