package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/timeseries"
	"github.com/epeers/reservoirs/internal/util"
)

// StatusService builds the daily status summary of a reservoir: the latest
// reading against the one before it.
type StatusService struct {
	source ReadingSource
	rep    timeseries.FillRepresentation
	now    func() time.Time
}

// NewStatusService creates a new StatusService
func NewStatusService(source ReadingSource, rep timeseries.FillRepresentation) *StatusService {
	return &StatusService{
		source: source,
		rep:    rep,
		now:    time.Now,
	}
}

// GetStatus compares the two most recent readings of id dated on or before
// the current report day. Fewer than two readings yields NoData.
func (s *StatusService) GetStatus(ctx context.Context, id string) (*models.StatusResponse, error) {
	defer TrackTime("GetStatus", time.Now())

	res, err := s.source.GetReservoir(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &models.StatusResponse{
		ReservoirID: id,
		Name:        res.CommonName,
	}

	today := util.ReportDay(s.now())
	raw, err := s.source.GetReadings(ctx, id, nil, &today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch readings for %s: %w", id, err)
	}
	series, issues := timeseries.Normalize(raw, s.rep)
	reportIssues(ctx, id, issues)
	reportMismatch(ctx, series, id)

	change, err := timeseries.LastChange(series)
	if errors.Is(err, timeseries.ErrTooFewReadings) {
		log.Debugf("status %s: %d usable readings", id, series.Len())
		resp.NoData = true
		resp.Message = FormatStatus(resp)
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	cur, prev := change.Current, change.Previous
	if resp.Name == "" {
		resp.Name = cur.ReservoirName
	}
	resp.Date = timeseries.FormatDate(cur.Date)
	resp.PreviousDate = timeseries.FormatDate(prev.Date)
	resp.Volume = cur.CurrentVolume
	resp.VolumeChange = change.VolumeDelta()
	resp.FillPercentage = cur.Percentage()

	if capacity := res.NAMOStorage; capacity != nil && *capacity > 0 && !math.IsInf(*capacity, 0) {
		c := *capacity
		resp.Capacity = &c
		resp.FillPercentage = cur.CurrentVolume / c * 100
		pct := resp.VolumeChange / c * 100
		resp.PercentageChange = &pct
	}
	if d, ok := change.ElevationDelta(); ok {
		cm := d * 100
		resp.ElevationChange = &cm
	}

	resp.Message = FormatStatus(resp)
	return resp, nil
}

// FormatStatus renders a status as a short post, e.g.
//
//	#Chapala
//	Volumen actual: 4125.30 hm³  (50.12%)
//	Cambios desde el 2024-05-01:
//	🔽 3.20 hm³    →    1.00 cm    →    0.04%
//
// Parts whose inputs are unknown are left out.
func FormatStatus(s *models.StatusResponse) string {
	if s.NoData {
		return fmt.Sprintf("#%s\nSin lecturas suficientes", hashtag(s.Name, s.ReservoirID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%s\n", hashtag(s.Name, s.ReservoirID))
	fmt.Fprintf(&b, "Volumen actual: %.2f hm³  (%.2f%%)\n", s.Volume, s.FillPercentage)
	fmt.Fprintf(&b, "Cambios desde el %s:\n", s.PreviousDate)

	arrow := "🔽"
	if s.VolumeChange > 0 {
		arrow = "🔼"
	}
	parts := []string{fmt.Sprintf("%s %.2f hm³", arrow, math.Abs(s.VolumeChange))}
	if s.ElevationChange != nil {
		parts = append(parts, fmt.Sprintf("%.2f cm", math.Abs(*s.ElevationChange)))
	}
	if s.PercentageChange != nil {
		parts = append(parts, fmt.Sprintf("%.2f%%", math.Abs(*s.PercentageChange)))
	}
	b.WriteString(strings.Join(parts, "    →    "))
	return b.String()
}

func hashtag(name, fallback string) string {
	tag := strings.Join(strings.Fields(name), "")
	if tag == "" {
		return fallback
	}
	return tag
}
