package mxlookup

import (
	"context"
	"sync"
	"time"
)

// LookupFunc performs one MX lookup, the shape both Resolver.Lookup and a
// CachingResolver's upstream share.
type LookupFunc func(ctx context.Context, domain string) ([]string, error)

// CachingResolver memoizes MX lookups for ttl, deduplicating concurrent
// lookups for the same domain so a batch verifying many addresses at the
// same provider issues one DNS query instead of one per address. Each
// domain gets its own sync.Once-guarded slot: the first caller runs next
// and every other caller for that domain blocks on the same Once instead
// of racing it.
type CachingResolver struct {
	ttl   time.Duration
	next  LookupFunc
	slots sync.Map // domain -> *resolution
}

// resolution is one domain's cached (or in-flight) outcome. readyAt stays
// zero until once has fired.
type resolution struct {
	once    sync.Once
	hosts   []string
	err     error
	readyAt time.Time
}

// NewCaching wraps next with a TTL cache. ttl <= 0 disables caching: every
// call passes straight through to next.
func NewCaching(ttl time.Duration, next LookupFunc) *CachingResolver {
	return &CachingResolver{ttl: ttl, next: next}
}

// Lookup returns next's result for domain, from cache when fresh.
func (c *CachingResolver) Lookup(ctx context.Context, domain string) ([]string, error) {
	if c.ttl <= 0 {
		return c.next(ctx, domain)
	}

	for {
		res := c.slotFor(domain)
		res.once.Do(func() {
			res.hosts, res.err = c.next(ctx, domain)
			res.readyAt = time.Now()
		})

		if time.Since(res.readyAt) < c.ttl {
			return copyHosts(res.hosts), res.err
		}
		// res resolved before our ttl window; drop it and let the next
		// iteration install a fresh slot rather than serve a stale answer.
		c.slots.CompareAndDelete(domain, res)
	}
}

// slotFor returns domain's current resolution slot, creating one if absent.
func (c *CachingResolver) slotFor(domain string) *resolution {
	actual, _ := c.slots.LoadOrStore(domain, &resolution{})
	return actual.(*resolution)
}

func copyHosts(hosts []string) []string {
	if hosts == nil {
		return nil
	}
	out := make([]string, len(hosts))
	copy(out, hosts)
	return out
}
