// Package cache implements the bounded, TTL-expiring, LRU-on-hit cache used
// for forwarded-answer responses.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Key identifies a cached response: the normalized query name, the query
// type name, and the upstream that answered it. Two different upstreams
// answering the same name/type are cached separately.
type Key struct {
	QName    string
	QType    string
	Upstream string
}

type entry struct {
	value     []byte
	expiresAt time.Time
	elem      *list.Element
}

// Cache is a thread-safe, bounded, TTL-expiring LRU cache. A zero maxEntries
// means unbounded: TTL expiry is the only purge mechanism.
type Cache struct {
	mu sync.Mutex

	maxEntries int
	lru        *list.List
	data       map[Key]*entry

	hits      uint64
	misses    uint64
	evictions uint64
}

// Stats is a point-in-time snapshot of cache counters, for the admin
// surface's /stats endpoint. It has no bearing on cache behavior itself.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a Cache. maxEntries <= 0 means unbounded.
func New(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		lru:        list.New(),
		data:       make(map[Key]*entry),
	}
}

// Stats returns a snapshot of the cache's size and hit/miss/eviction
// counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   len(c.data),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Get returns the cached bytes for key and true on a live hit. A missing or
// expired entry is a miss; an expired entry is removed as a side effect.
// A hit always moves the entry to the MRU end.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if e.expiresAt.Before(time.Now()) {
		c.remove(key, e)
		c.misses++
		return nil, false
	}
	c.lru.MoveToBack(e.elem)
	c.hits++
	return e.value, true
}

// Contains reports whether key has a live entry, without disturbing LRU
// order.
func (c *Cache) Contains(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return false
	}
	return !e.expiresAt.Before(time.Now())
}

// Set stores value under key with the given TTL, computing an absolute
// expiry. An existing entry for key is removed first so the reinsertion
// lands at the MRU end; if the cache is at capacity after that removal, the
// LRU entry is evicted to make room.
func (c *Cache) Set(key Key, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.data[key]; ok {
		c.remove(key, existing)
	}
	if c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.evictLRU()
	}

	e := &entry{value: value, expiresAt: time.Now().Add(ttl)}
	e.elem = c.lru.PushBack(key)
	c.data[key] = e
}

// Cleanup sweeps all entries and removes those whose expiry has strictly
// passed. It is meant to be called periodically, not on the request path.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.data {
		if e.expiresAt.Before(now) {
			c.remove(k, e)
		}
	}
}

// remove deletes key's entry from both the map and the LRU list. Caller
// must hold c.mu.
func (c *Cache) remove(key Key, e *entry) {
	c.lru.Remove(e.elem)
	delete(c.data, key)
}

// evictLRU drops the least-recently-used entry. Caller must hold c.mu.
func (c *Cache) evictLRU() {
	front := c.lru.Front()
	if front == nil {
		return
	}
	k := front.Value.(Key)
	c.lru.Remove(front)
	delete(c.data, k)
	c.evictions++
}
