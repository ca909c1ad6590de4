package cache

import (
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/trendmart/storefront/internal/models"
)

// CouponCache is a small TTL cache in front of the coupon table. Coupon rows
// change rarely; a short TTL keeps the verify path off the database without
// needing explicit invalidation from admin writes.
type CouponCache struct {
	mu    sync.RWMutex
	clock clock.Clock
	ttl   time.Duration
	store map[string]entry
}

type entry struct {
	coupon    models.Coupon
	expiresAt time.Time
}

func NewCouponCache(clk clock.Clock, ttl time.Duration) *CouponCache {
	return &CouponCache{
		clock: clk,
		ttl:   ttl,
		store: make(map[string]entry),
	}
}

func (c *CouponCache) Get(code string) (*models.Coupon, bool) {
	c.mu.RLock()
	e, ok := c.store[code]
	c.mu.RUnlock()
	if !ok || c.clock.Now().After(e.expiresAt) {
		return nil, false
	}
	coupon := e.coupon
	return &coupon, true
}

func (c *CouponCache) Set(code string, coupon models.Coupon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[code] = entry{coupon: coupon, expiresAt: c.clock.Now().Add(c.ttl)}
}

func (c *CouponCache) Invalidate(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, code)
}
