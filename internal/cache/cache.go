// Package cache provides a TTL-bounded LRU cache for marketplace query
// results, with single-flight coalescing so each query key has at most
// one upstream fetch in flight.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
	"github.com/adamistheanswer/pokebay/internal/metrics"
)

// Metrics holds cache performance counters.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// OfferCache caches offer lists keyed by the canonical search signature
// of an item. Entries expire after the configured TTL and the least
// recently used entry is evicted at capacity.
type OfferCache struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	items     map[string]*entry
	head      *entry
	tail      *entry
	group     singleflight.Group
	stopCh    chan struct{}
	hits      int64
	misses    int64
	evictions int64
}

type entry struct {
	key       string
	offers    []model.Offer
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// New creates an OfferCache with the given capacity and TTL. A
// background goroutine periodically removes expired entries.
func New(capacity int, ttl time.Duration) *OfferCache {
	if capacity < 1 {
		capacity = 1
	}
	c := &OfferCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		stopCh:   make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached offers for key if present and unexpired.
func (c *OfferCache) Get(key string) ([]model.Offer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		c.misses++
		metrics.RecordCacheOperation("get", "expired")
		return nil, false
	}

	c.moveToFront(e)
	c.hits++
	metrics.RecordCacheOperation("get", "hit")
	return e.offers, true
}

// Set stores offers under key with the configured TTL, evicting the
// least recently used entry at capacity.
func (c *OfferCache) Set(key string, offers []model.Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.offers = offers
		e.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	if len(c.items) >= c.capacity && c.tail != nil {
		c.removeEntry(c.tail)
		c.evictions++
		metrics.RecordCacheOperation("set", "evicted")
	}

	e := &entry{key: key, offers: offers, expiresAt: time.Now().Add(c.ttl)}
	c.items[key] = e
	c.pushFront(e)
}

// GetOrFetch returns the cached offers for key, or runs fetch to
// populate it. Concurrent callers for the same key share a single
// fetch; failed fetches are not cached.
func (c *OfferCache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) ([]model.Offer, error)) ([]model.Offer, error) {
	if offers, ok := c.Get(key); ok {
		return offers, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check inside the flight: a previous flight may have
		// populated the key while this caller was queued.
		if offers, ok := c.Get(key); ok {
			return offers, nil
		}
		offers, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, offers)
		return offers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Offer), nil
}

// Clear removes all entries.
func (c *OfferCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry, c.capacity)
	c.head = nil
	c.tail = nil
}

// Stop shuts down the cleanup goroutine.
func (c *OfferCache) Stop() {
	close(c.stopCh)
}

// Metrics returns current cache counters.
func (c *OfferCache) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Metrics{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

func (c *OfferCache) cleanupLoop() {
	interval := c.ttl
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *OfferCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.items {
		if now.After(e.expiresAt) {
			c.removeEntry(e)
		}
	}
}

// list helpers; callers hold c.mu.

func (c *OfferCache) pushFront(e *entry) {
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

func (c *OfferCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *OfferCache) removeEntry(e *entry) {
	c.unlink(e)
	delete(c.items, e.key)
}

func (c *OfferCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else if c.head == e {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else if c.tail == e {
		c.tail = e.prev
	}
}
