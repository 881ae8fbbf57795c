package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/timeseries"
)

// ReadingSource is the data service as seen by the chart views.
type ReadingSource interface {
	GetReadings(ctx context.Context, id string, startDate, endDate *time.Time) ([]timeseries.RawReading, error)
	GetReservoir(ctx context.Context, id string) (*models.Reservoir, error)
}

// SeriesRequest selects the window of the per-reservoir view. Explicit dates
// take precedence over Policy; an empty Policy means the configured default.
type SeriesRequest struct {
	Policy    timeseries.WindowPolicy
	StartDate *time.Time
	EndDate   *time.Time
}

// SeriesService builds the per-reservoir chart.
type SeriesService struct {
	source        ReadingSource
	defaultPolicy timeseries.WindowPolicy
	rep           timeseries.FillRepresentation
}

// NewSeriesService creates a new SeriesService
func NewSeriesService(source ReadingSource, defaultPolicy timeseries.WindowPolicy, rep timeseries.FillRepresentation) *SeriesService {
	return &SeriesService{
		source:        source,
		defaultPolicy: defaultPolicy,
		rep:           rep,
	}
}

// GetSeries normalizes the full history of a reservoir, picks the window and
// returns the windowed points plus the latest reading.
// A reservoir without usable readings yields a NoData response, not an error.
func (s *SeriesService) GetSeries(ctx context.Context, id string, req SeriesRequest) (*models.SeriesResponse, error) {
	defer TrackTime("GetSeries", time.Now())

	policy := req.Policy
	if policy == "" {
		policy = s.defaultPolicy
	}
	resp := &models.SeriesResponse{
		ReservoirID: id,
		Policy:      string(policy),
		Points:      []models.SeriesPoint{},
	}

	raw, err := s.source.GetReadings(ctx, id, nil, nil)
	if err != nil {
		return nil, err
	}
	series, issues := timeseries.Normalize(raw, s.rep)
	reportIssues(ctx, id, issues)
	reportMismatch(ctx, series, id)

	if series.Empty() {
		if _, err := s.source.GetReservoir(ctx, id); err != nil {
			return nil, err
		}
		resp.NoData = true
		return resp, nil
	}

	window, err := s.window(ctx, series, policy, req)
	if err != nil {
		return nil, err
	}
	resp.Window = toWindowDTO(window)

	visible := timeseries.Slice(series, window)
	for _, r := range visible.Readings() {
		resp.Points = append(resp.Points, models.SeriesPoint{
			Date:           timeseries.FormatDate(r.Date),
			Volume:         r.CurrentVolume,
			FillPercentage: r.Percentage(),
		})
	}

	latest, err := timeseries.Latest(series)
	if err != nil {
		return nil, err
	}
	resp.Latest = toLatestDTO(latest)
	return resp, nil
}

func (s *SeriesService) window(ctx context.Context, series timeseries.Series, policy timeseries.WindowPolicy, req SeriesRequest) (timeseries.DateWindow, error) {
	if req.StartDate == nil && req.EndDate == nil {
		return timeseries.DeriveWindow(series, policy)
	}
	return explicitWindow(ctx, series, req.StartDate, req.EndDate)
}

// explicitWindow clamps a user-chosen window to the series range and warns when it had to.
func explicitWindow(ctx context.Context, series timeseries.Series, startDate, endDate *time.Time) (timeseries.DateWindow, error) {
	var start, end time.Time
	if startDate != nil {
		start = *startDate
	}
	if endDate != nil {
		end = *endDate
	}
	w, err := timeseries.NewWindow(series, start, end)
	if err != nil {
		return w, err
	}
	if (startDate != nil && !timeseries.DateOf(*startDate).Equal(w.Start)) ||
		(endDate != nil && !timeseries.DateOf(*endDate).Equal(w.End)) {
		AddWarning(ctx, models.Warning{
			Code: models.WarnWindowClamped,
			Message: fmt.Sprintf("window clamped to available data %s..%s",
				timeseries.FormatDate(w.Start), timeseries.FormatDate(w.End)),
		})
	}
	return w, nil
}

// IsRequestError reports whether err was caused by the caller's parameters.
func IsRequestError(err error) bool {
	return errors.Is(err, timeseries.ErrInvalidWindow) ||
		errors.Is(err, timeseries.ErrUnknownPolicy)
}

func toWindowDTO(w timeseries.DateWindow) *models.DateWindow {
	return &models.DateWindow{
		Start: timeseries.FormatDate(w.Start),
		End:   timeseries.FormatDate(w.End),
		Min:   timeseries.FormatDate(w.RangeStart),
		Max:   timeseries.FormatDate(w.RangeEnd),
	}
}

func toLatestDTO(s timeseries.Summary) *models.LatestReading {
	return &models.LatestReading{
		ReservoirID:    s.ReservoirID,
		Name:           s.ReservoirName,
		Date:           timeseries.FormatDate(s.Date),
		Volume:         s.CurrentVolume,
		FillPercentage: s.FillPercentage,
	}
}
