// Package cache is the fingerprint-keyed LRU result cache shared by all
// query executions. It is the engine's only shared mutable state: one mutex
// guards the map and the recency list together, and eviction is a pure
// function of access order.
package cache

import (
	"sync"
	"sync/atomic"
)

// Entry is one cached result. Value holds a *StructureReport, file content,
// or a per-file match slice; the cache never inspects it.
type Entry struct {
	Key   Fingerprint
	Path  string // root-relative path, for path-based invalidation
	Bytes int    // size estimate counted against the byte budget
	Value any
}

// node is one slot in the index-linked recency list. Slots are recycled
// through a free list so steady-state operation allocates nothing.
type node struct {
	prev, next int
	used       bool
	entry      Entry
}

const nilIdx = -1

// Cache is a strict-LRU store bounded by entry count and an aggregate byte
// estimate. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int

	nodes      []node
	free       []int
	head, tail int // head = most recently used

	byKey  map[Fingerprint]int
	byPath map[string]map[Fingerprint]struct{}

	curBytes int
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	Entries int
	Bytes   int
	Hits    uint64
	Misses  uint64
}

// New creates a cache bounded by maxEntries and maxBytes. Non-positive
// bounds get defaults (1024 entries, 64MB).
func New(maxEntries, maxBytes int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if maxBytes <= 0 {
		maxBytes = 64 * 1024 * 1024
	}
	return &Cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		head:       nilIdx,
		tail:       nilIdx,
		byKey:      make(map[Fingerprint]int),
		byPath:     make(map[string]map[Fingerprint]struct{}),
	}
}

// Get returns the value for key and marks it most recently used. Callers
// must treat returned values as read-only; reports are shared between
// concurrent queries.
func (c *Cache) Get(key Fingerprint) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byKey[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.moveToFront(idx)
	return c.nodes[idx].entry.Value, true
}

// Put stores a value under key, replacing any previous entry for the same
// key, then evicts least-recently-used entries until both budgets hold.
// Concurrent writers racing on the same fingerprint are last-writer-wins;
// both compute the same result, so either outcome is correct.
func (c *Cache) Put(key Fingerprint, path string, bytes int, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx, ok := c.byKey[key]; ok {
		c.curBytes += bytes - c.nodes[idx].entry.Bytes
		c.nodes[idx].entry = Entry{Key: key, Path: path, Bytes: bytes, Value: value}
		c.moveToFront(idx)
	} else {
		idx := c.alloc()
		c.nodes[idx].entry = Entry{Key: key, Path: path, Bytes: bytes, Value: value}
		c.byKey[key] = idx
		c.pushFront(idx)
		c.curBytes += bytes
		keys, ok := c.byPath[path]
		if !ok {
			keys = make(map[Fingerprint]struct{})
			c.byPath[path] = keys
		}
		keys[key] = struct{}{}
	}

	for len(c.byKey) > c.maxEntries || (c.curBytes > c.maxBytes && c.tail != nilIdx) {
		c.removeIdx(c.tail)
	}
}

// Invalidate removes the entry for key if present.
func (c *Cache) Invalidate(key Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.byKey[key]; ok {
		c.removeIdx(idx)
	}
}

// InvalidatePath removes every entry derived from the given root-relative
// path. The watcher calls this when a file changes or disappears.
func (c *Cache) InvalidatePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.byPath[path] {
		if idx, ok := c.byKey[key]; ok {
			c.removeIdx(idx)
		}
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.byKey)
	bytes := c.curBytes
	c.mu.Unlock()
	return Stats{
		Entries: entries,
		Bytes:   bytes,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// alloc returns a free node index, growing the slice when the free list is
// empty.
func (c *Cache) alloc() int {
	if n := len(c.free); n > 0 {
		idx := c.free[n-1]
		c.free = c.free[:n-1]
		return idx
	}
	c.nodes = append(c.nodes, node{})
	return len(c.nodes) - 1
}

func (c *Cache) pushFront(idx int) {
	n := &c.nodes[idx]
	n.used = true
	n.prev = nilIdx
	n.next = c.head
	if c.head != nilIdx {
		c.nodes[c.head].prev = idx
	}
	c.head = idx
	if c.tail == nilIdx {
		c.tail = idx
	}
}

func (c *Cache) unlink(idx int) {
	n := &c.nodes[idx]
	if n.prev != nilIdx {
		c.nodes[n.prev].next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nilIdx {
		c.nodes[n.next].prev = n.prev
	} else {
		c.tail = n.prev
	}
}

func (c *Cache) moveToFront(idx int) {
	if c.head == idx {
		return
	}
	c.unlink(idx)
	c.pushFront(idx)
}

// removeIdx unlinks a node, updates budgets and indexes, and recycles the
// slot. Caller holds the lock.
func (c *Cache) removeIdx(idx int) {
	entry := c.nodes[idx].entry
	c.unlink(idx)
	c.nodes[idx] = node{}
	c.free = append(c.free, idx)

	delete(c.byKey, entry.Key)
	c.curBytes -= entry.Bytes
	if keys, ok := c.byPath[entry.Path]; ok {
		delete(keys, entry.Key)
		if len(keys) == 0 {
			delete(c.byPath, entry.Path)
		}
	}
}
