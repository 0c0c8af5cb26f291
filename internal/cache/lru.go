// Package cache provides caching utilities for inference results.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache provides thread-safe LRU caching of results keyed by a
// digest of their inputs.
type ResultCache[V any] struct {
	cache *lru.Cache[string, V]
}

// NewResultCache creates a new LRU cache with the specified maximum number of items.
func NewResultCache[V any](maxItems int) (*ResultCache[V], error) {
	c, err := lru.New[string, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResultCache[V]{cache: c}, nil
}

// Get retrieves a result by its digest.
// Returns the result and true if found, the zero value and false otherwise.
func (c *ResultCache[V]) Get(digest string) (V, bool) {
	return c.cache.Get(digest)
}

// Put adds or updates a result in the cache.
func (c *ResultCache[V]) Put(digest string, v V) {
	c.cache.Add(digest, v)
}

// Len returns the current number of items in the cache.
func (c *ResultCache[V]) Len() int {
	return c.cache.Len()
}

// Purge removes every cached result.
func (c *ResultCache[V]) Purge() {
	c.cache.Purge()
}
