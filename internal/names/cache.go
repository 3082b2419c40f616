package names

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// Source is implemented by each mapping feed (HTTP CSV, local table).
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]Entry, error)
}

// Cache holds the process-wide dictionary snapshot. Readers always see
// either the old or the new complete Resolver, never a partial one; the
// swap is a single atomic pointer replacement, no lock.
type Cache struct {
	cur atomic.Pointer[Resolver]
}

func NewCache() *Cache {
	return &Cache{}
}

// Loaded reports whether any dictionary (even an empty one) has been
// installed yet.
func (c *Cache) Loaded() bool {
	return c.cur.Load() != nil
}

// Current returns the active Resolver. Before the first load it returns an
// empty dictionary so lookups degrade to normalized passthrough.
func (c *Cache) Current() *Resolver {
	if r := c.cur.Load(); r != nil {
		return r
	}
	return emptyResolver
}

// Replace installs a new dictionary snapshot wholesale.
func (c *Cache) Replace(r *Resolver) {
	if r == nil {
		r = emptyResolver
	}
	c.cur.Store(r)
}

var emptyResolver = Build(nil)

// Refresher rebuilds the cache from a Source on a fixed interval.
type Refresher struct {
	Source   Source
	Cache    *Cache
	Interval time.Duration
}

func NewRefresher(src Source, cache *Cache, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Refresher{Source: src, Cache: cache, Interval: interval}
}

// Refresh fetches the feed once and swaps the dictionary. A failed fetch
// before any successful load installs the empty dictionary (callers must
// keep working on unmapped passthrough); after a successful load the last
// good dictionary is kept.
func (r *Refresher) Refresh(ctx context.Context) error {
	entries, err := r.Source.FetchAll(ctx)
	if err != nil {
		log.Printf("[names] %s fetch failed: %v", r.Source.Name(), err)
		if !r.Cache.Loaded() {
			r.Cache.Replace(emptyResolver)
		}
		return err
	}
	built := Build(entries)
	r.Cache.Replace(built)
	log.Printf("[names] %s loaded %d entries", r.Source.Name(), built.Len())
	return nil
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	_ = r.Refresh(ctx)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.Refresh(ctx)
		}
	}
}
