package dashboard

import (
	"log/slog"
	"slices"
	"time"

	"budgeter/internal/cache"
	"budgeter/internal/core"
)

// viewKey identifies one derivation. Version changes on every store mutation,
// and day pins the time window to now's calendar date.
type viewKey struct {
	version  uint64
	rng      core.TimeRange
	currency string
	day      string
}

// Deriver memoizes Derive. Cached results are deep enough copies that callers
// may modify what they receive.
type Deriver struct {
	cache *cache.LRUCache[viewKey, core.Dashboard]
}

// NewDeriver creates a memoizing deriver keeping at most size views for ttl.
func NewDeriver(size int, ttl time.Duration) *Deriver {
	return &Deriver{cache: cache.NewLRUCache[viewKey, core.Dashboard](size, ttl)}
}

// Cache exposes the underlying cache for periodic cleanup registration.
func (d *Deriver) Cache() cache.Cleaner {
	return d.cache
}

// Derive returns the views for entries at the given store version.
func (d *Deriver) Derive(version uint64, entries []core.Entry, f core.Filter, now time.Time) core.Dashboard {
	key := viewKey{
		version:  version,
		rng:      f.TimeRange,
		currency: f.Currency,
		day:      core.DayOf(now).Format(core.DateLayout),
	}
	if v, ok := d.cache.Get(key); ok {
		slog.Debug("Dashboard cache hit", "component", "cache", "version", version, "range", f.TimeRange, "currency", f.Currency)
		return clone(v)
	}
	v := Derive(entries, f, now)
	d.cache.Set(key, v)
	return clone(v)
}

func clone(v core.Dashboard) core.Dashboard {
	v.Breakdown = slices.Clone(v.Breakdown)
	v.Entries = slices.Clone(v.Entries)
	return v
}
