package mapbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache. Request
// payloads often repeat the same coordinates across layers, so hits are common.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, name, state string) (domain.GeocodingResult, error) {
	key := fmt.Sprintf("fwd:%s|%s", name, state)
	return c.lookup(key, "forward", func() (domain.GeocodingResult, error) {
		return c.inner.ForwardGeocode(ctx, name, state)
	})
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
	return c.lookup(key, "reverse", func() (domain.GeocodingResult, error) {
		return c.inner.ReverseGeocode(ctx, lat, lon)
	})
}

func (c *CachedGeocoder) lookup(key, method string, fetch func() (domain.GeocodingResult, error)) (domain.GeocodingResult, error) {
	if result, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues(method, "hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues(method, "miss").Inc()

	result, err := fetch()
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.cache.put(key, result)
	}
	return result, nil
}

// lruCache is a thread-safe LRU cache for GeocodingResults.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key        string
	value      domain.GeocodingResult
	prev, next *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry, maxEntries),
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) get(key string) (domain.GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.GeocodingResult) {
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

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lruCache) pushFront(e *entry) {
	e.prev, e.next = nil, c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
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

func (c *lruCache) evictOldest() {
	if c.tail == nil {
		return
	}
	oldest := c.tail
	c.unlink(oldest)
	delete(c.entries, oldest.key)
}
