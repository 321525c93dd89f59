package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// cacheKey buckets results by (domain, location, hour). Bucketing by hour
// gives cached entries an implicit expiry without a sweeper: the next hour
// produces a new key and old entries age out of the LRU.
func cacheKey(d domain.Domain, loc domain.Location) string {
	bucket := domain.Now().UTC().Truncate(time.Hour)
	return fmt.Sprintf("%s|%.4f,%.4f|%s", d, loc.Lat(), loc.Lng(), bucket.Format(time.RFC3339))
}

// resultCache is a thread-safe LRU cache for computed Results. The engine
// only ever reads entries back verbatim; cached results are never mutated.
type resultCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value Result
	prev  *entry
	next  *entry
}

func newResultCache(maxEntries int) *resultCache {
	return &resultCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *resultCache) get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *resultCache) put(key string, value Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *resultCache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *resultCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.head == e {
		c.head = e.next
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *resultCache) evictOldest() {
	oldest := c.tail
	if oldest == nil {
		return
	}
	c.unlink(oldest)
	delete(c.entries, oldest.key)
}
