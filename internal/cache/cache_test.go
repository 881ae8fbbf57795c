package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/reservoirs/internal/timeseries"
)

func vol(v float64) *float64 { return &v }

func sample() []timeseries.RawReading {
	return []timeseries.RawReading{
		{Date: "2024-01-01", ReservoirID: "LDCJL", CurrentVolume: vol(4000), FillFraction: vol(0.5)},
		{Date: "2024-01-02", ReservoirID: "LDCJL", CurrentVolume: vol(4010), FillFraction: vol(0.51)},
	}
}

func TestMemoryCache_HitAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.SetReadings(ctx, "k", sample(), now.Add(time.Hour))

	got, ok := c.GetReadings(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, sample(), got)

	// TTL caps the later report deadline.
	now = now.Add(5 * time.Minute)
	_, ok = c.GetReadings(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_DeadlineBeforeTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour)
	c.now = func() time.Time { return now }

	c.SetReadings(ctx, "k", sample(), now.Add(time.Minute))
	now = now.Add(2 * time.Minute)

	_, ok := c.GetReadings(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_ExpiredEntriesAreRemoved(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	c.SetReadings(ctx, "LDCJL:2024-01-01:2024-01-31", sample(), time.Time{})
	c.SetReadings(ctx, "LDCJL:2024-02-01:2024-02-29", sample(), time.Time{})
	require.Equal(t, 2, c.Len())

	now = now.Add(2 * time.Minute)
	_, ok := c.GetReadings(ctx, "LDCJL:2024-01-01:2024-01-31")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	// a write sweeps the remaining stale key
	c.SetReadings(ctx, "LDCJL:2024-03-01:2024-03-31", sample(), time.Time{})
	assert.Equal(t, 1, c.Len())
	_, ok = c.GetReadings(ctx, "LDCJL:2024-03-01:2024-03-31")
	assert.True(t, ok)
}

func TestMemoryCache_EntriesAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)

	in := sample()
	c.SetReadings(ctx, "k", in, time.Time{})
	*in[0].CurrentVolume = -1

	got, ok := c.GetReadings(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 4000.0, *got[0].CurrentVolume)

	*got[1].CurrentVolume = -1
	again, _ := c.GetReadings(ctx, "k")
	assert.Equal(t, 4010.0, *again[1].CurrentVolume)
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	c.SetReadings(ctx, "a", sample(), time.Time{})
	c.SetReadings(ctx, "b", sample(), time.Time{})
	require.Equal(t, 2, c.Len())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestTiered_BackfillsFrontTier(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(time.Hour)
	l2 := NewMemoryCache(time.Hour)
	tiered := NewTiered(l1, nil, l2)

	l2.SetReadings(ctx, "k", sample(), time.Time{})

	got, ok := tiered.GetReadings(ctx, "k", time.Now().Add(time.Hour))
	require.True(t, ok)
	assert.Len(t, got, 2)

	_, ok = l1.GetReadings(ctx, "k")
	assert.True(t, ok, "L1 should be back-filled from L2")

	require.NoError(t, tiered.Clear(ctx))
	_, ok = tiered.GetReadings(ctx, "k", time.Now().Add(time.Hour))
	assert.False(t, ok)
}

func TestReadingsKey(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "LDCJL:-:-", ReadingsKey("LDCJL", nil, nil))
	assert.Equal(t, "LDCJL:2024-01-01:-", ReadingsKey("LDCJL", &start, nil))
}

func TestRedisCache_RoundTrip(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping redis integration test")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, redisURL)
	require.NoError(t, err)
	defer c.Close()

	c.SetReadings(ctx, "test:roundtrip", sample(), time.Now().Add(time.Minute))
	got, ok := c.GetReadings(ctx, "test:roundtrip")
	require.True(t, ok)
	assert.Equal(t, sample(), got)

	require.NoError(t, c.Clear(ctx))
	_, ok = c.GetReadings(ctx, "test:roundtrip")
	assert.False(t, ok)

	c.SetReadings(ctx, "test:expired", sample(), time.Now().Add(-time.Minute))
	_, ok = c.GetReadings(ctx, "test:expired")
	assert.False(t, ok)
}
