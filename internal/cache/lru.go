package cache

import (
	"context"
	"sync"

	"github.com/ninebox/ninebox/pkg/assessment"
)

// DefaultLRUSize is used when NewLRU is given a non-positive size.
const DefaultLRUSize = 100

// LRU is a thread-safe in-process least-recently-used record cache.
type LRU struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*assessment.Record
	order   []string // oldest first
}

// NewLRU creates a cache holding at most maxSize records.
func NewLRU(maxSize int) *LRU {
	if maxSize <= 0 {
		maxSize = DefaultLRUSize
	}
	return &LRU{
		maxSize: maxSize,
		entries: make(map[string]*assessment.Record),
	}
}

// Get returns a copy of the cached record.
func (c *LRU) Get(_ context.Context, id string) (*assessment.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	c.moveToEnd(id)
	return rec.Clone(), true
}

// Put stores a copy of rec, evicting the least recently used entry if full.
func (c *LRU) Put(_ context.Context, rec *assessment.Record) {
	if rec == nil || rec.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[rec.ID]; ok {
		c.entries[rec.ID] = rec.Clone()
		c.moveToEnd(rec.ID)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[rec.ID] = rec.Clone()
	c.order = append(c.order, rec.ID)
}

// Invalidate drops the entry for id if present.
func (c *LRU) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	c.remove(id)
}

// Len returns the number of cached records.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU) moveToEnd(id string) {
	c.remove(id)
	c.order = append(c.order, id)
}

func (c *LRU) remove(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
