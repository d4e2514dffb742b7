package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/vjranagit/queryeditor/pkg/types"
)

// Lister is any scenario source
type Lister interface {
	ListScenarios(ctx context.Context) ([]types.Scenario, error)
}

// Cached wraps a Lister and reuses a successful result for ttl. Failures are
// never cached.
type Cached struct {
	lister Lister
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	scenarios []types.Scenario
	fetchedAt time.Time
	valid     bool
	hits      uint64
	misses    uint64
}

// NewCached creates a cached lister
func NewCached(lister Lister, ttl time.Duration) *Cached {
	return &Cached{
		lister: lister,
		ttl:    ttl,
		now:    time.Now,
	}
}

// ListScenarios returns the cached catalog or fetches a fresh one
func (c *Cached) ListScenarios(ctx context.Context) ([]types.Scenario, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) <= c.ttl {
		c.hits++
		return append([]types.Scenario(nil), c.scenarios...), nil
	}

	c.misses++
	scenarios, err := c.lister.ListScenarios(ctx)
	if err != nil {
		c.valid = false
		return nil, err
	}

	c.scenarios = append([]types.Scenario(nil), scenarios...)
	c.fetchedAt = c.now()
	c.valid = true
	return append([]types.Scenario(nil), scenarios...), nil
}

// Invalidate drops the cached catalog
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.scenarios = nil
}

// Stats returns cache hits and misses
func (c *Cached) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// HitRate returns the cache hit rate as a percentage
func (c *Cached) HitRate() float64 {
	hits, misses := c.Stats()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}
