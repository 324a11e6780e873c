package report

import (
	"fmt"
	"time"

	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/ledger"
)

// Cached memoizes the three derived views keyed by ledger revision.
// Correctness never depends on the cache: every view is re-derivable
// from the snapshot alone.
type Cached struct {
	ledger *ledger.Store
	now    func() time.Time

	totals     *cache.LRU[Totals]
	byDate     *cache.LRU[map[string][]core.Transaction]
	byCategory *cache.LRU[map[string]core.Money]
}

func NewCached(l *ledger.Store) *Cached {
	const keep = 4
	const ttl = time.Minute
	return &Cached{
		ledger:     l,
		now:        time.Now,
		totals:     cache.NewLRU[Totals](keep, ttl),
		byDate:     cache.NewLRU[map[string][]core.Transaction](keep, ttl),
		byCategory: cache.NewLRU[map[string]core.Money](keep, ttl),
	}
}

func (c *Cached) Totals() Totals {
	rev, snap := c.state()
	return c.totals.GetOrCompute(rev, func() Totals {
		return ComputeTotals(snap)
	})
}

func (c *Cached) ByDate() map[string][]core.Transaction {
	rev, snap := c.state()
	now := c.now()
	// The today-fallback for legacy dateless records makes this view
	// date-dependent, so the key carries the current calendar date.
	key := rev + "@" + core.Today(now, c.ledger.Zone())
	return c.byDate.GetOrCompute(key, func() map[string][]core.Transaction {
		return ByDate(snap, now, c.ledger.Zone())
	})
}

func (c *Cached) ByCategory() map[string]core.Money {
	rev, snap := c.state()
	return c.byCategory.GetOrCompute(rev, func() map[string]core.Money {
		return ByCategory(snap)
	})
}

func (c *Cached) state() (string, []core.Transaction) {
	rev, snap := c.ledger.State()
	return fmt.Sprintf("%d", rev), snap
}
