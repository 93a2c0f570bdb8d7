package coordcache

import (
	"sync"

	"watermap/internal/domain"
)

// lruTier is a thread-safe LRU map of location keys to coordinate records.
type lruTier struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[domain.LocationKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   domain.LocationKey
	value domain.CoordinateRecord
	prev  *entry
	next  *entry
}

func newLRUTier(maxEntries int) *lruTier {
	return &lruTier{
		maxEntries: maxEntries,
		entries:    make(map[domain.LocationKey]*entry),
	}
}

func (c *lruTier) get(key domain.LocationKey) (domain.CoordinateRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.CoordinateRecord{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruTier) put(key domain.LocationKey, value domain.CoordinateRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruTier) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruTier) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruTier) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruTier) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
