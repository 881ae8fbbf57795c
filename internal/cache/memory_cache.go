package cache

import (
	"context"
	"sync"
	"time"

	"github.com/epeers/reservoirs/internal/timeseries"
)

// MemoryCache provides an in-memory L1 cache for fetched reading arrays
type MemoryCache struct {
	readings map[string]readingEntry
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

type readingEntry struct {
	data      []timeseries.RawReading
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache whose entries live at most ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		readings: make(map[string]readingEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetReadings retrieves cached readings if present and fresh. An expired entry
// is removed.
func (c *MemoryCache) GetReadings(_ context.Context, key string) ([]timeseries.RawReading, bool) {
	c.mu.RLock()
	entry, exists := c.readings[key]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.readings[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.readings, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return cloneReadings(entry.data), true
}

// SetReadings caches readings until the earlier of expiresAt and the cache TTL.
// Expired entries are swept first so range keys never accumulate.
func (c *MemoryCache) SetReadings(_ context.Context, key string, data []timeseries.RawReading, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.readings {
		if !now.Before(e.expiresAt) {
			delete(c.readings, k)
		}
	}

	if limit := now.Add(c.ttl); expiresAt.IsZero() || expiresAt.After(limit) {
		expiresAt = limit
	}
	c.readings[key] = readingEntry{
		data:      cloneReadings(data),
		expiresAt: expiresAt,
	}
}

// Clear removes all cached data
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.readings = make(map[string]readingEntry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, fresh or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.readings)
}

// cloneReadings copies the slice and every pointed-to value so callers can
// never mutate a cached entry.
func cloneReadings(in []timeseries.RawReading) []timeseries.RawReading {
	if in == nil {
		return nil
	}
	out := make([]timeseries.RawReading, len(in))
	for i, r := range in {
		r.CurrentVolume = clonePtr(r.CurrentVolume)
		r.FillFraction = clonePtr(r.FillFraction)
		r.FillPercentage = clonePtr(r.FillPercentage)
		r.Elevation = clonePtr(r.Elevation)
		out[i] = r
	}
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
