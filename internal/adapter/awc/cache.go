package awc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/observability"
)

// CachedSource wraps a ReportSource with an in-memory LRU cache. Entries
// expire after a fixed TTL.
type CachedSource struct {
	inner   domain.ReportSource
	cache   *lruCache
	metrics *observability.Metrics
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithCacheClock replaces the clock used to age entries.
func WithCacheClock(c clockwork.Clock) CacheOption {
	return func(s *CachedSource) { s.cache.clock = c }
}

// NewCachedSource creates a cache decorator around a report source.
func NewCachedSource(inner domain.ReportSource, maxEntries int, ttl time.Duration, metrics *observability.Metrics, opts ...CacheOption) *CachedSource {
	s := &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clockwork.NewRealClock()),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CachedSource) LatestReport(ctx context.Context, station string) (domain.StationReport, error) {
	key := strings.ToUpper(strings.TrimSpace(station))
	switch report, state := s.cache.get(key); state {
	case cacheHit:
		s.metrics.ReportCache.WithLabelValues("hit").Inc()
		return report, nil
	case cacheExpired:
		s.metrics.ReportCache.WithLabelValues("expired").Inc()
	default:
		s.metrics.ReportCache.WithLabelValues("miss").Inc()
	}

	report, err := s.inner.LatestReport(ctx, key)
	if err != nil {
		return report, err
	}
	// Only cache non-empty results so a station that has not reported yet is asked again.
	if report.Raw != "" {
		s.cache.put(key, report)
	}
	return report, nil
}

type lookup int

const (
	cacheMiss lookup = iota
	cacheHit
	cacheExpired
)

// lruCache is a thread-safe LRU cache of StationReports with per-entry expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key     string
	value   domain.StationReport
	expires time.Time
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.StationReport, lookup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.StationReport{}, cacheMiss
	}
	if !c.clock.Now().Before(e.expires) {
		delete(c.entries, key)
		c.remove(e)
		return domain.StationReport{}, cacheExpired
	}
	c.moveToFront(e)
	return e.value, cacheHit
}

func (c *lruCache) put(key string, value domain.StationReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
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

func (c *lruCache) remove(e *entry) {
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

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
