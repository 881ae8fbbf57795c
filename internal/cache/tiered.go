package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/reservoirs/internal/timeseries"
)

// ReadingStore is one cache tier.
type ReadingStore interface {
	GetReadings(ctx context.Context, key string) ([]timeseries.RawReading, bool)
	SetReadings(ctx context.Context, key string, data []timeseries.RawReading, expiresAt time.Time)
	Clear(ctx context.Context) error
}

// Tiered checks each tier in order and back-fills faster tiers on a hit.
type Tiered struct {
	tiers []ReadingStore
}

// NewTiered builds a cache from fastest to slowest tier. Nil tiers are skipped.
func NewTiered(tiers ...ReadingStore) *Tiered {
	t := &Tiered{}
	for _, tier := range tiers {
		if tier != nil {
			t.tiers = append(t.tiers, tier)
		}
	}
	return t
}

// GetReadings returns the first hit. The value is written back to the tiers
// in front of the one that had it, with expiresAt as their deadline.
func (t *Tiered) GetReadings(ctx context.Context, key string, expiresAt time.Time) ([]timeseries.RawReading, bool) {
	for i, tier := range t.tiers {
		data, ok := tier.GetReadings(ctx, key)
		if !ok {
			continue
		}
		for _, front := range t.tiers[:i] {
			front.SetReadings(ctx, key, data, expiresAt)
		}
		return data, true
	}
	return nil, false
}

// SetReadings writes to every tier.
func (t *Tiered) SetReadings(ctx context.Context, key string, data []timeseries.RawReading, expiresAt time.Time) {
	for _, tier := range t.tiers {
		tier.SetReadings(ctx, key, data, expiresAt)
	}
}

// Clear empties every tier, returning the joined errors.
func (t *Tiered) Clear(ctx context.Context) error {
	var errs []error
	for _, tier := range t.tiers {
		if err := tier.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadingsKey is the cache key of a reading range. Open bounds are written as "-".
func ReadingsKey(reservoirID string, start, end *time.Time) string {
	return fmt.Sprintf("%s:%s:%s", reservoirID, boundKey(start), boundKey(end))
}

func boundKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return timeseries.FormatDate(*t)
}
