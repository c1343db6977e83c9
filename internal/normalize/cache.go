// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package normalize

import "sync"

// memoEntry is a node in the insertion-order list.
type memoEntry struct {
	key   string
	value string
	prev  *memoEntry
	next  *memoEntry
}

// memoCache is a thread-safe bounded string cache with insertion-order
// eviction: when full, the oldest-inserted entry is dropped. Lookups do
// not refresh an entry's position, so this is FIFO rather than true
// LRU. Normalization output for a given key never changes, so recency
// tracking buys nothing here.
//
// Uses a doubly-linked list with sentinel nodes plus a map for O(1)
// insert, lookup, and eviction.
type memoCache struct {
	mu sync.RWMutex

	capacity int
	items    map[string]*memoEntry

	// head.next is the newest entry, tail.prev the oldest.
	head *memoEntry
	tail *memoEntry

	hits   int64
	misses int64
}

func newMemoCache(capacity int) *memoCache {
	c := &memoCache{
		capacity: capacity,
		items:    make(map[string]*memoEntry, capacity),
		head:     &memoEntry{},
		tail:     &memoEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get retrieves a cached value. Access order is not updated.
func (c *memoCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.hits++
		return entry.value, true
	}
	c.misses++
	return "", false
}

// Add inserts or updates an entry, evicting the oldest entry when over
// capacity.
func (c *memoCache) Add(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		return
	}

	entry := &memoEntry{key: key, value: value}
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Len returns the current number of entries.
func (c *memoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns hit/miss counts and current size.
func (c *memoCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.items)
}

// evictOldest removes the oldest-inserted entry. Caller holds the lock.
func (c *memoCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	oldest.prev.next = oldest.next
	oldest.next.prev = oldest.prev
	delete(c.items, oldest.key)
}
