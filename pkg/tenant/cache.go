package tenant

import (
	"context"
	"sync"
	"time"

	"github.com/washlane/washlane/pkg/directory"
)

// Cache fronts the tenant directory for read-mostly resolution lookups.
type Cache interface {
	Get(ctx context.Context, key string) (*directory.Tenant, bool)
	Set(ctx context.Context, key string, t *directory.Tenant, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// DefaultCacheSize bounds the in-memory cache.
const DefaultCacheSize = 1000

type cacheItem struct {
	tenant    *directory.Tenant
	expiresAt time.Time
}

// memoryCache is the default in-process cache with TTL expiry and a small
// FIFO eviction policy. Writers only ever add entries on successful
// lookups, so a failed or cancelled request cannot corrupt it.
type memoryCache struct {
	mu      sync.RWMutex
	items   map[string]cacheItem
	order   []string
	maxSize int
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory cache with a size limit.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &memoryCache{
		items:   make(map[string]cacheItem),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*directory.Tenant, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.Delete(ctx, key)
		return nil, false
	}
	return item.tenant, true
}

func (c *memoryCache) Set(_ context.Context, key string, t *directory.Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = cacheItem{tenant: t, expiresAt: time.Now().Add(ttl)}
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// noopCache disables caching. Useful in tests.
type noopCache struct{}

// NewNoopCache creates a cache that never stores anything.
func NewNoopCache() Cache { return &noopCache{} }

func (noopCache) Get(context.Context, string) (*directory.Tenant, bool) { return nil, false }
func (noopCache) Set(context.Context, string, *directory.Tenant, time.Duration) {
}
func (noopCache) Delete(context.Context, string) {}
