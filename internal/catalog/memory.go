package catalog

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is the default single-process cache. It keeps one snapshot of
// the catalog with a TTL.
type MemoryCache struct {
	mu        sync.RWMutex
	products  []Product
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		now: time.Now,
	}
}

func (m *MemoryCache) Get(context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.products == nil || m.now().After(m.expiresAt) {
		return nil, ErrCacheMiss
	}

	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MemoryCache) Set(_ context.Context, products []Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make([]Product, len(products))
	copy(m.products, products)
	m.expiresAt = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryCache) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = nil
	return nil
}
