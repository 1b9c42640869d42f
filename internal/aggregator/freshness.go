package aggregator

import (
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
)

// TTLTable holds per-domain freshness windows.
type TTLTable map[models.Domain]time.Duration

// DefaultTTLs mirror the volatility of each domain: slow-moving macro
// series hold the longest, crypto the shortest.
func DefaultTTLs() TTLTable {
	return TTLTable{
		models.DomainMacro:       time.Hour,
		models.DomainEquities:    15 * time.Minute,
		models.DomainFX:          15 * time.Minute,
		models.DomainCommodities: 15 * time.Minute,
		models.DomainCrypto:      5 * time.Minute,
		models.DomainSentiment:   15 * time.Minute,
	}
}

type cacheEntry struct {
	snapshot models.Snapshot
	storedAt time.Time
}

// Freshness is an in-process per-domain snapshot cache. Reads are
// lock-free; concurrent writes for one domain resolve last-writer-wins.
// Only live-origin snapshots are admitted.
type Freshness struct {
	ttls    TTLTable
	entries sync.Map // models.Domain -> cacheEntry
	now     func() time.Time
}

// NewFreshness creates a freshness cache with the given TTL table.
func NewFreshness(ttls TTLTable) *Freshness {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &Freshness{ttls: ttls, now: time.Now}
}

// Get returns the cached snapshot for a domain if it is still inside
// its freshness window.
func (f *Freshness) Get(domain models.Domain) (models.Snapshot, bool) {
	v, ok := f.entries.Load(domain)
	if !ok {
		return models.Snapshot{}, false
	}
	entry := v.(cacheEntry)
	ttl, ok := f.ttls[domain]
	if !ok || f.now().Sub(entry.storedAt) > ttl {
		return models.Snapshot{}, false
	}
	return entry.snapshot, true
}

// Put stores a snapshot. Mock and degraded snapshots are rejected so a
// fallback never masks live data for a full TTL window.
func (f *Freshness) Put(snapshot models.Snapshot) {
	if snapshot.Origin != models.OriginLive {
		return
	}
	f.entries.Store(snapshot.Domain, cacheEntry{snapshot: snapshot, storedAt: f.now()})
}

// Invalidate drops the cached snapshot for a domain.
func (f *Freshness) Invalidate(domain models.Domain) {
	f.entries.Delete(domain)
}

// TTL returns the freshness window for a domain.
func (f *Freshness) TTL(domain models.Domain) time.Duration {
	return f.ttls[domain]
}
