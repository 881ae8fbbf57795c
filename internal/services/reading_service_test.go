package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/reservoirs/internal/cache"
	"github.com/epeers/reservoirs/internal/services"
)

func TestReadingService_CachesRanges(t *testing.T) {
	src := newFakeSource()
	src.add(reading("LDCJL", "2024-01-01", 10, 0.5), reading("LDCJL", "2024-01-02", 11, 0.5))
	svc := services.NewReadingService(src, src, cache.NewTiered(cache.NewMemoryCache(time.Hour)))
	ctx := context.Background()

	first, err := svc.GetReadings(ctx, "LDCJL", nil, nil)
	require.NoError(t, err)
	second, err := svc.GetReadings(ctx, "LDCJL", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.callCount("LDCJL"))

	// a different range is a different key
	_, err = svc.GetReadings(ctx, "LDCJL", datePtr("2024-01-02"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount("LDCJL"))

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.GetReadings(ctx, "LDCJL", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, src.callCount("LDCJL"))
}

func TestReadingService_NilCache(t *testing.T) {
	src := newFakeSource()
	src.add(reading("LDCJL", "2024-01-01", 10, 0.5))
	svc := services.NewReadingService(src, src, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.GetReadings(ctx, "LDCJL", nil, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.callCount("LDCJL"))
	assert.NoError(t, svc.Invalidate(ctx))
}

func TestReadingService_GetLatest(t *testing.T) {
	src := newFakeSource()
	src.add(reading("LDCJL", "2024-01-01", 10, 0.5), reading("LDCJL", "2024-01-05", 12, 0.6))
	svc := services.NewReadingService(src, src, nil)

	latest, err := svc.GetLatest(context.Background(), "LDCJL")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", latest.Date)

	_, err = svc.GetLatest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, services.ErrReservoirNotFound)
}
