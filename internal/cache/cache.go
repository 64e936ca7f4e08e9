package cache

import "sync"

// Cache is a generic thread-safe LRU cache holding at most capacity
// entries. Adding an entry to a full cache evicts the least recently used
// one.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most capacity entries.
// A capacity of 0 or less means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
	}
}

// Get returns the value stored under key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(node)
	return node.value, true
}

// Set stores value under key, replacing any previous value.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		node.value = value
		c.order.moveToFront(node)
		return
	}

	c.entries[key] = c.order.pushFront(key, value)
	if c.capacity > 0 && c.order.len > c.capacity {
		oldest := c.order.removeOldest()
		delete(c.entries, oldest.key)
		c.evictions++
	}
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries, 0 when unlimited.
	Capacity int
	// Hits is the number of lookups that found a value.
	Hits uint64
	// Misses is the number of lookups that found nothing.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 before the first lookup.
	HitRate float64
	// Evictions is the number of entries dropped to respect Capacity.
	Evictions uint64
}
