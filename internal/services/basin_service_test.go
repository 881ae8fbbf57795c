package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/services"
	"github.com/epeers/reservoirs/internal/timeseries"
)

func basinConfig(companions ...string) services.BasinConfig {
	return services.BasinConfig{
		ReferenceID:  "LDCJL",
		CompanionIDs: companions,
		Policy:       timeseries.PolicyFullRange,
		Concurrency:  2,
	}
}

func TestBasinService_AlignsCompanionsByDate(t *testing.T) {
	src := newFakeSource()
	src.add(
		reading("LDCJL", "2024-01-01", 100, 0.5),
		reading("LDCJL", "2024-01-02", 110, 0.55),
		reading("LDCJL", "2024-01-03", 120, 0.6),
		// A skips the 2nd, B only reports the 2nd plus a date the lake lacks
		reading("A", "2024-01-01", 5, 0.1),
		reading("A", "2024-01-03", 7, 0.1),
		reading("B", "2024-01-02", 50, 0.2),
		reading("B", "2024-01-04", 99, 0.2),
	)
	svc := services.NewBasinService(src, basinConfig("A", "B"), timeseries.FillFraction)

	resp, err := svc.GetBasin(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, resp.Frames, 3)
	assert.Equal(t, models.BasinFrame{Date: "2024-01-01", ReferenceVolume: 100, CompanionVolume: 5, Contributors: 1}, resp.Frames[0])
	assert.Equal(t, models.BasinFrame{Date: "2024-01-02", ReferenceVolume: 110, CompanionVolume: 50, Contributors: 1}, resp.Frames[1])
	assert.Equal(t, models.BasinFrame{Date: "2024-01-03", ReferenceVolume: 120, CompanionVolume: 7, Contributors: 1}, resp.Frames[2])

	require.NotNil(t, resp.HistoricalAverage)
	assert.InDelta(t, 110.0, *resp.HistoricalAverage, 1e-9)

	require.Len(t, resp.Latest, 3)
	assert.Equal(t, "LDCJL", resp.Latest[0].ReservoirID)
	assert.Equal(t, "A", resp.Latest[1].ReservoirID)
	assert.Equal(t, "B", resp.Latest[2].ReservoirID)
	assert.Equal(t, []string{"A", "B"}, resp.Companions)
}

func TestBasinService_AverageUsesFullReferenceHistory(t *testing.T) {
	src := newFakeSource()
	src.add(
		reading("LDCJL", "2023-01-01", 10, 0.5),
		reading("LDCJL", "2024-01-01", 20, 0.5),
		reading("LDCJL", "2024-01-15", 30, 0.5),
	)
	cfg := basinConfig()
	cfg.Policy = timeseries.PolicyLastMonth
	svc := services.NewBasinService(src, cfg, timeseries.FillFraction)

	resp, err := svc.GetBasin(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Len(t, resp.Frames, 2)
	assert.Equal(t, "2023-12-15", resp.Window.Start)
	assert.InDelta(t, 20.0, *resp.HistoricalAverage, 1e-9)
}

func TestBasinService_CompanionWithoutData(t *testing.T) {
	src := newFakeSource()
	src.add(reading("LDCJL", "2024-01-01", 100, 0.5))
	svc := services.NewBasinService(src, basinConfig("GHOST"), timeseries.FillFraction)
	ctx, wc := services.NewWarningContext(context.Background())

	resp, err := svc.GetBasin(ctx, nil, nil)
	require.NoError(t, err)

	require.Len(t, resp.Frames, 1)
	assert.Equal(t, 0.0, resp.Frames[0].CompanionVolume)
	assert.Len(t, resp.Latest, 1)

	warnings := wc.GetWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarnCompanionNoData, warnings[0].Code)
}

func TestBasinService_EmptyReference(t *testing.T) {
	src := newFakeSource()
	src.add(reading("A", "2024-01-01", 5, 0.1))
	svc := services.NewBasinService(src, basinConfig("A"), timeseries.FillFraction)
	ctx, wc := services.NewWarningContext(context.Background())

	resp, err := svc.GetBasin(ctx, nil, nil)
	require.NoError(t, err)

	assert.True(t, resp.NoData)
	assert.Nil(t, resp.HistoricalAverage)
	assert.Empty(t, resp.Frames)
	assert.Equal(t, 0, src.callCount("A"))
	require.Len(t, wc.GetWarnings(), 1)
	assert.Equal(t, models.WarnAverageUnavailable, wc.GetWarnings()[0].Code)
}

func TestBasinService_CompanionFailureIsFatal(t *testing.T) {
	src := newFakeSource()
	src.add(reading("LDCJL", "2024-01-01", 100, 0.5), reading("A", "2024-01-01", 5, 0.1))
	src.failures["B"] = errors.New("connection refused")
	svc := services.NewBasinService(src, basinConfig("A", "B"), timeseries.FillFraction)

	_, err := svc.GetBasin(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B")
}

func TestBasinService_ExplicitWindow(t *testing.T) {
	src := newFakeSource()
	for d := 1; d <= 9; d++ {
		src.add(reading("LDCJL", fmt.Sprintf("2024-01-%02d", d), float64(d), 0.5))
	}
	svc := services.NewBasinService(src, basinConfig(), timeseries.FillFraction)

	resp, err := svc.GetBasin(context.Background(), datePtr("2024-01-03"), datePtr("2024-01-05"))
	require.NoError(t, err)
	assert.Len(t, resp.Frames, 3)
	assert.InDelta(t, 5.0, *resp.HistoricalAverage, 1e-9)

	_, err = svc.GetBasin(context.Background(), datePtr("2025-01-01"), datePtr("2025-02-01"))
	assert.True(t, services.IsRequestError(err))
}

func TestBasinService_PastWindowReportsCurrentCompanionReadings(t *testing.T) {
	src := newFakeSource()
	for d := 1; d <= 9; d++ {
		src.add(reading("LDCJL", fmt.Sprintf("2024-01-%02d", d), float64(d), 0.5))
		src.add(reading("A", fmt.Sprintf("2024-01-%02d", d), float64(10*d), 0.1))
	}
	svc := services.NewBasinService(src, basinConfig("A"), timeseries.FillFraction)

	resp, err := svc.GetBasin(context.Background(), datePtr("2024-01-02"), datePtr("2024-01-04"))
	require.NoError(t, err)

	require.Len(t, resp.Frames, 3)
	assert.Equal(t, 40.0, resp.Frames[2].CompanionVolume)

	require.Len(t, resp.Latest, 2)
	assert.Equal(t, "2024-01-09", resp.Latest[0].Date)
	assert.Equal(t, "A", resp.Latest[1].ReservoirID)
	assert.Equal(t, "2024-01-09", resp.Latest[1].Date)
	assert.Equal(t, 90.0, resp.Latest[1].Volume)
}

func TestBasinService_ManyCompanionsKeepOrder(t *testing.T) {
	src := newFakeSource()
	src.add(reading("LDCJL", "2024-01-01", 100, 0.5))
	var ids []string
	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("C%02d", i)
		ids = append(ids, id)
		src.add(reading(id, "2024-01-01", 1, 0.1))
	}
	svc := services.NewBasinService(src, basinConfig(ids...), timeseries.FillFraction)

	resp, err := svc.GetBasin(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 23.0, resp.Frames[0].CompanionVolume)
	assert.Equal(t, 23, resp.Frames[0].Contributors)
	require.Len(t, resp.Latest, 24)
	for i, id := range ids {
		assert.Equal(t, id, resp.Latest[i+1].ReservoirID)
	}
}
