// Package cache provides a small generic LRU cache.
//
// It memoises derived delivery records keyed by their content hash:
//
//	c := cache.New[uint64, []entry](64)
//	c.Set(key, value)
//	value, ok := c.Get(key)
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation
// (it contains a mutex).
package cache
