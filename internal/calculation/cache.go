package calculation

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// lruCache is a size-bounded cache with per-entry TTL.
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	item := elem.Value.(*cacheItem[T])
	if c.ttl > 0 && c.now().After(item.expiresAt) {
		c.lru.Remove(elem)
		delete(c.items, key)
		return zero, false
	}
	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{key: key, data: data, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(item)

	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheItem[T]).key)
	}
}

func (c *lruCache[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// CacheStats reports memoization effectiveness.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// CachedEngine memoizes CalculateTax per (income, country). Results depend only
// on the immutable dataset; the TTL bounds memory held by rarely used entries.
type CachedEngine struct {
	*Engine
	cache  *lruCache[domain.TaxCalculationResult]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedEngine wraps engine with an LRU of at most size entries. A size of
// zero or less disables caching and every call goes to engine.
func NewCachedEngine(engine *Engine, size int, ttl time.Duration) *CachedEngine {
	c := &CachedEngine{Engine: engine}
	if size > 0 {
		c.cache = newLRUCache[domain.TaxCalculationResult](size, ttl)
	}
	return c
}

func cacheKey(income decimal.Decimal, code string) string {
	return dataset.NormalizeCode(code) + "|" + income.String()
}

// CalculateTax returns a memoized result when one exists.
func (c *CachedEngine) CalculateTax(income decimal.Decimal, countryCode string) domain.TaxCalculationResult {
	if c.cache == nil || domain.ValidateIncome(income) != nil {
		c.misses.Add(1)
		return c.Engine.CalculateTax(income, countryCode)
	}
	key := cacheKey(income, countryCode)
	if r, ok := c.cache.get(key); ok {
		c.hits.Add(1)
		return cloneResult(r)
	}
	c.misses.Add(1)
	r := c.Engine.CalculateTax(income, countryCode)
	c.cache.set(key, r)
	return cloneResult(r)
}

// Stats returns hit and miss counters.
func (c *CachedEngine) Stats() CacheStats {
	stats := CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if c.cache != nil {
		stats.Size = c.cache.len()
	}
	return stats
}

func cloneResult(r domain.TaxCalculationResult) domain.TaxCalculationResult {
	r.Breakdown = append([]domain.BreakdownEntry{}, r.Breakdown...)
	return r
}
