package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/services"
	"github.com/epeers/reservoirs/internal/timeseries"
)

func seriesSource() *fakeSource {
	src := newFakeSource()
	src.add(
		reading("PIRMX", "2023-01-15", 100, 0.40),
		reading("PIRMX", "2023-09-01", 120, 0.48),
		reading("PIRMX", "2024-02-01", 130, 0.52),
		reading("PIRMX", "2024-03-01", 140, 0.56),
	)
	return src
}

func TestSeriesService_DefaultPolicy(t *testing.T) {
	svc := services.NewSeriesService(seriesSource(), timeseries.PolicyLastYear, timeseries.FillFraction)

	resp, err := svc.GetSeries(context.Background(), "PIRMX", services.SeriesRequest{})
	require.NoError(t, err)

	assert.False(t, resp.NoData)
	assert.Equal(t, "lastYear", resp.Policy)
	require.NotNil(t, resp.Window)
	assert.Equal(t, models.DateWindow{Start: "2023-03-01", End: "2024-03-01", Min: "2023-01-15", Max: "2024-03-01"}, *resp.Window)
	require.Len(t, resp.Points, 3)
	assert.Equal(t, "2023-09-01", resp.Points[0].Date)
	assert.InDelta(t, 48.0, resp.Points[0].FillPercentage, 1e-9)

	require.NotNil(t, resp.Latest)
	assert.Equal(t, "2024-03-01", resp.Latest.Date)
	assert.Equal(t, 140.0, resp.Latest.Volume)
}

func TestSeriesService_PolicyOverride(t *testing.T) {
	svc := services.NewSeriesService(seriesSource(), timeseries.PolicyLastYear, timeseries.FillFraction)

	resp, err := svc.GetSeries(context.Background(), "PIRMX", services.SeriesRequest{Policy: timeseries.PolicyFullRange})
	require.NoError(t, err)
	assert.Len(t, resp.Points, 4)

	resp, err = svc.GetSeries(context.Background(), "PIRMX", services.SeriesRequest{Policy: timeseries.PolicyLastMonth})
	require.NoError(t, err)
	assert.Len(t, resp.Points, 2)
}

func TestSeriesService_ExplicitWindowClamped(t *testing.T) {
	svc := services.NewSeriesService(seriesSource(), timeseries.PolicyLastYear, timeseries.FillFraction)
	ctx, wc := services.NewWarningContext(context.Background())

	resp, err := svc.GetSeries(ctx, "PIRMX", services.SeriesRequest{
		StartDate: datePtr("2020-01-01"),
		EndDate:   datePtr("2023-12-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-15", resp.Window.Start)
	assert.Equal(t, "2023-12-31", resp.Window.End)
	assert.Len(t, resp.Points, 2)

	warnings := wc.GetWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarnWindowClamped, warnings[0].Code)
}

func TestSeriesService_InvalidWindow(t *testing.T) {
	svc := services.NewSeriesService(seriesSource(), timeseries.PolicyLastYear, timeseries.FillFraction)

	_, err := svc.GetSeries(context.Background(), "PIRMX", services.SeriesRequest{
		StartDate: datePtr("2024-01-01"),
		EndDate:   datePtr("2023-01-01"),
	})
	require.Error(t, err)
	assert.True(t, services.IsRequestError(err))
}

func TestSeriesService_NoData(t *testing.T) {
	src := newFakeSource()
	src.known["EMPTY"] = true
	svc := services.NewSeriesService(src, timeseries.PolicyLastYear, timeseries.FillFraction)

	resp, err := svc.GetSeries(context.Background(), "EMPTY", services.SeriesRequest{})
	require.NoError(t, err)
	assert.True(t, resp.NoData)
	assert.Empty(t, resp.Points)
	assert.Nil(t, resp.Latest)
	assert.Nil(t, resp.Window)

	_, err = svc.GetSeries(context.Background(), "MISSING", services.SeriesRequest{})
	assert.ErrorIs(t, err, services.ErrReservoirNotFound)
}

func TestSeriesService_MalformedRecordsWarn(t *testing.T) {
	src := seriesSource()
	bad := reading("PIRMX", "not-a-date", 1, 0.1)
	missing := reading("PIRMX", "2024-02-15", 1, 0.1)
	missing.CurrentVolume = nil
	src.add(bad, missing)
	svc := services.NewSeriesService(src, timeseries.PolicyFullRange, timeseries.FillFraction)
	ctx, wc := services.NewWarningContext(context.Background())

	resp, err := svc.GetSeries(ctx, "PIRMX", services.SeriesRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Points, 4)

	var codes []models.WarningCode
	for _, w := range wc.GetWarnings() {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []models.WarningCode{models.WarnMalformedDate, models.WarnMalformedValue}, codes)
}
