package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/timeseries"
)

// BasinConfig names the reference reservoir and its companions.
type BasinConfig struct {
	ReferenceID  string
	CompanionIDs []string
	Policy       timeseries.WindowPolicy
	Concurrency  int
}

// BasinService builds the basin view: the reference reservoir against the
// summed volume of its companions.
type BasinService struct {
	source ReadingSource
	cfg    BasinConfig
	rep    timeseries.FillRepresentation
}

// NewBasinService creates a new BasinService
func NewBasinService(source ReadingSource, cfg BasinConfig, rep timeseries.FillRepresentation) *BasinService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.Policy == "" {
		cfg.Policy = timeseries.PolicyLastMonth
	}
	return &BasinService{source: source, cfg: cfg, rep: rep}
}

// ReferenceID returns the configured reference reservoir.
func (s *BasinService) ReferenceID() string {
	return s.cfg.ReferenceID
}

// GetBasin aligns every companion to the reference dates inside the window.
// Nil dates select the configured default window. A failed companion fetch
// fails the whole request; a companion without readings contributes 0.
func (s *BasinService) GetBasin(ctx context.Context, startDate, endDate *time.Time) (*models.BasinResponse, error) {
	defer TrackTime("GetBasin", time.Now())

	refID := s.cfg.ReferenceID
	resp := &models.BasinResponse{
		ReferenceID: refID,
		Companions:  append([]string{}, s.cfg.CompanionIDs...),
		Frames:      []models.BasinFrame{},
		Latest:      []models.LatestReading{},
	}

	raw, err := s.source.GetReadings(ctx, refID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference %s: %w", refID, err)
	}
	reference, issues := timeseries.Normalize(raw, s.rep)
	reportIssues(ctx, refID, issues)
	reportMismatch(ctx, reference, refID)

	if reference.Empty() {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnAverageUnavailable,
			Message: fmt.Sprintf("reference %s has no readings; historical average unavailable", refID),
		})
		resp.NoData = true
		return resp, nil
	}

	var window timeseries.DateWindow
	if startDate == nil && endDate == nil {
		window, err = timeseries.DeriveWindow(reference, s.cfg.Policy)
	} else {
		window, err = explicitWindow(ctx, reference, startDate, endDate)
	}
	if err != nil {
		return nil, err
	}
	resp.Window = toWindowDTO(window)

	companions, recent, err := s.fetchCompanions(ctx, window)
	if err != nil {
		return nil, err
	}

	visible := timeseries.Slice(reference, window)
	for _, f := range timeseries.Align(visible, companions) {
		resp.Frames = append(resp.Frames, models.BasinFrame{
			Date:            timeseries.FormatDate(f.Date),
			ReferenceVolume: f.ReferenceVolume,
			CompanionVolume: f.CompanionVolume,
			Contributors:    f.Contributors,
		})
	}

	avg, err := timeseries.HistoricalAverage(reference)
	if err != nil {
		return nil, err
	}
	resp.HistoricalAverage = &avg

	if latest, err := timeseries.Latest(reference); err == nil {
		resp.Latest = append(resp.Latest, *toLatestDTO(latest))
	}
	for _, c := range recent {
		if latest, err := timeseries.Latest(c); err == nil {
			resp.Latest = append(resp.Latest, *toLatestDTO(latest))
		}
	}
	return resp, nil
}

// fetchCompanions loads and normalizes every companion from the window start
// onwards, in configured order. It returns each companion sliced to the window
// and the unsliced tail, whose last reading is the companion's latest even when
// the window lies in the past. Results land by index so ordering never depends
// on timing.
func (s *BasinService) fetchCompanions(ctx context.Context, window timeseries.DateWindow) (windowed, recent []timeseries.Series, err error) {
	ids := s.cfg.CompanionIDs
	raws := make([][]timeseries.RawReading, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	start, end := window.Start, window.End
	for i, id := range ids {
		g.Go(func() error {
			data, err := s.source.GetReadings(gctx, id, &start, nil)
			if err != nil {
				return fmt.Errorf("failed to fetch companion %s: %w", id, err)
			}
			raws[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	windowed = make([]timeseries.Series, len(ids))
	recent = make([]timeseries.Series, len(ids))
	for i, id := range ids {
		c, issues := timeseries.Normalize(raws[i], s.rep)
		reportIssues(ctx, id, issues)
		reportMismatch(ctx, c, id)
		recent[i] = c
		windowed[i] = timeseries.Slice(c, window)
		if windowed[i].Empty() {
			log.Debugf("companion %s has no readings in %s..%s", id,
				timeseries.FormatDate(start), timeseries.FormatDate(end))
			AddWarning(ctx, models.Warning{
				Code:    models.WarnCompanionNoData,
				Message: fmt.Sprintf("%s has no readings in the window; counted as 0", id),
			})
		}
	}
	return windowed, recent, nil
}
