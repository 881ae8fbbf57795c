package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/reservoirs/internal/conagua"
	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/repository"
	"github.com/epeers/reservoirs/internal/timeseries"
)

// DefaultIngestDelay is the pause after each upstream call during a backfill.
const DefaultIngestDelay = 250 * time.Millisecond

// ReportSource fetches raw CONAGUA daily reports.
type ReportSource interface {
	FetchReport(ctx context.Context, date time.Time) ([]byte, error)
}

// ReportArchive stores raw reports by date.
type ReportArchive interface {
	Get(ctx context.Context, date time.Time) ([]byte, bool, error)
	Put(ctx context.Context, date time.Time, data []byte) error
}

// ReservoirWriter persists reservoir metadata.
type ReservoirWriter interface {
	UpsertReservoirs(ctx context.Context, reservoirs []models.Reservoir, overwrite bool) error
}

// ReadingWriter persists readings and the loaded date span.
type ReadingWriter interface {
	UpsertReadings(ctx context.Context, readings []models.ReadingRow) error
	GetIngestRange(ctx context.Context) (*repository.IngestRange, error)
	UpsertIngestRange(ctx context.Context, startDate, endDate time.Time) error
}

// CacheInvalidator drops cached reading ranges after new data lands.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// DayResult describes one ingested report date.
type DayResult struct {
	HasData        bool
	UpstreamCalled bool
	ArchiveHit     bool
	Readings       int
}

// IngestService loads CONAGUA daily reports into the database.
type IngestService struct {
	source     ReportSource
	archive    ReportArchive
	reservoirs ReservoirWriter
	readings   ReadingWriter
	cache      CacheInvalidator
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewIngestService creates a new IngestService. archive and cache may be nil.
func NewIngestService(source ReportSource, archive ReportArchive, reservoirs ReservoirWriter, readings ReadingWriter, cache CacheInvalidator) *IngestService {
	return &IngestService{
		source:     source,
		archive:    archive,
		reservoirs: reservoirs,
		readings:   readings,
		cache:      cache,
		sleep:      sleepCtx,
	}
}

// IngestDate loads the report of a single date. The archive is consulted first;
// an upstream report is archived before it is stored. A date without a report
// is not an error.
func (s *IngestService) IngestDate(ctx context.Context, date time.Time) (DayResult, error) {
	defer TrackTime("IngestDate", time.Now())

	date = timeseries.DateOf(date)
	day := timeseries.FormatDate(date)
	var res DayResult

	body, hit := s.fromArchive(ctx, date)
	if hit {
		res.ArchiveHit = true
	} else {
		res.UpstreamCalled = true
		data, err := s.source.FetchReport(ctx, date)
		if errors.Is(err, conagua.ErrNoReport) {
			log.Infof("no report for %s", day)
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("failed to fetch report %s: %w", day, err)
		}
		body = data
		s.toArchive(ctx, date, body)
	}

	items, err := conagua.ParseReport(body)
	if err != nil {
		return res, fmt.Errorf("failed to parse report %s: %w", day, err)
	}

	reservoirs, rows := convertReport(ctx, date, items)
	if len(rows) == 0 {
		return res, nil
	}

	overwrite, err := s.isNewest(ctx, date)
	if err != nil {
		return res, err
	}
	if err := s.reservoirs.UpsertReservoirs(ctx, reservoirs, overwrite); err != nil {
		return res, err
	}
	if err := s.readings.UpsertReadings(ctx, rows); err != nil {
		return res, err
	}
	if err := s.readings.UpsertIngestRange(ctx, date, date); err != nil {
		return res, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warnf("failed to invalidate reading cache: %v", err)
		}
	}

	res.HasData = true
	res.Readings = len(rows)
	log.Infof("ingested %d readings for %s", len(rows), day)
	return res, nil
}

// Backfill ingests every date from to down to from, newest first, pausing for
// delay after each upstream call. A failing date is logged and skipped; only
// context cancellation stops the walk early.
func (s *IngestService) Backfill(ctx context.Context, from, to time.Time, delay time.Duration) (*models.IngestResult, error) {
	from, to = timeseries.DateOf(from), timeseries.DateOf(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s after %s", timeseries.ErrInvalidWindow,
			timeseries.FormatDate(from), timeseries.FormatDate(to))
	}

	var dates []time.Time
	for d := to; !d.Before(from); d = d.AddDate(0, 0, -1) {
		dates = append(dates, d)
	}
	return s.IngestDates(ctx, dates, delay)
}

// IngestDates ingests the given dates in order with the same rules as Backfill.
// Replaying the archived dates rebuilds the database without any upstream call.
func (s *IngestService) IngestDates(ctx context.Context, dates []time.Time, delay time.Duration) (*models.IngestResult, error) {
	result := &models.IngestResult{}
	for i, d := range dates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		day, err := s.IngestDate(ctx, d)
		result.DaysProcessed++
		if day.UpstreamCalled {
			result.UpstreamCalls++
		}
		if day.ArchiveHit {
			result.ArchiveHits++
		}
		if err != nil {
			log.Errorf("ingest %s failed: %v", timeseries.FormatDate(d), err)
			result.Warnings = append(result.Warnings, models.Warning{
				Code:    models.WarnIngestFailed,
				Message: fmt.Sprintf("%s: %v", timeseries.FormatDate(d), err),
			})
		}
		if day.HasData {
			result.DaysWithData++
			result.ReadingsStored += day.Readings
		}
		log.WithFields(log.Fields{
			"date":     timeseries.FormatDate(d),
			"found":    fmt.Sprintf("%d/%d", result.DaysWithData, result.DaysProcessed),
			"upstream": result.UpstreamCalls,
		}).Debug("ingest progress")

		if day.UpstreamCalled && delay > 0 && i < len(dates)-1 {
			if err := s.sleep(ctx, delay); err != nil {
				return result, err
			}
		}
	}
	return result, nil
}

func (s *IngestService) fromArchive(ctx context.Context, date time.Time) ([]byte, bool) {
	if s.archive == nil {
		return nil, false
	}
	data, ok, err := s.archive.Get(ctx, date)
	if err != nil {
		s.archiveWarning(ctx, date, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if items, err := conagua.ParseReport(data); err != nil || len(items) == 0 {
		log.Warnf("archived report %s unusable, refetching: %v", timeseries.FormatDate(date), err)
		return nil, false
	}
	return data, true
}

func (s *IngestService) toArchive(ctx context.Context, date time.Time, data []byte) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(ctx, date, data); err != nil {
		s.archiveWarning(ctx, date, err)
	}
}

func (s *IngestService) archiveWarning(ctx context.Context, date time.Time, err error) {
	log.Warnf("report archive unavailable for %s: %v", timeseries.FormatDate(date), err)
	AddWarning(ctx, models.Warning{
		Code:    models.WarnArchiveUnavailable,
		Message: fmt.Sprintf("archive unavailable for %s: %v", timeseries.FormatDate(date), err),
	})
}

// isNewest reports whether date is at or past the newest loaded report, in
// which case its metadata replaces what is stored.
func (s *IngestService) isNewest(ctx context.Context, date time.Time) (bool, error) {
	r, err := s.readings.GetIngestRange(ctx)
	if err != nil {
		return false, err
	}
	return r == nil || !date.Before(timeseries.DateOf(r.EndDate)), nil
}

// convertReport splits report items into metadata and readings, skipping
// items without an id. Items dated differently from the report are stored
// under their own date.
func convertReport(ctx context.Context, date time.Time, items []conagua.ReportItem) ([]models.Reservoir, []models.ReadingRow) {
	reservoirs := make([]models.Reservoir, 0, len(items))
	rows := make([]models.ReadingRow, 0, len(items))
	seen := make(map[string]bool, len(items))
	skipped := 0

	for _, it := range items {
		if it.ReservoirID == "" || seen[it.ReservoirID] {
			skipped++
			continue
		}
		d := date
		if it.Date != "" {
			parsed, err := it.ParsedDate()
			if err != nil {
				skipped++
				continue
			}
			d = parsed
		}
		seen[it.ReservoirID] = true

		reservoirs = append(reservoirs, models.Reservoir{
			ID:             it.ReservoirID,
			OfficialName:   string(it.OfficialName),
			CommonName:     string(it.CommonName),
			State:          string(it.State),
			Municipality:   string(it.Municipality),
			Region:         string(it.Region),
			Latitude:       it.Latitude.Value,
			Longitude:      it.Longitude.Value,
			Use:            string(it.Use),
			Stream:         string(it.Stream),
			SpillwayType:   string(it.SpillwayType),
			OperationStart: string(it.OperationStart),
			CrestElevation: string(it.CrestElevation),
			Freeboard:      it.Freeboard.Value,
			NAMEElevation:  it.NAMEElevation.Value,
			NAMEStorage:    it.NAMEStorage.Value,
			NAMOElevation:  it.NAMOElevation.Value,
			NAMOStorage:    it.NAMOStorage.Value,
			DamHeight:      string(it.DamHeight),
		})
		rows = append(rows, models.ReadingRow{
			ReservoirID:  it.ReservoirID,
			Date:         d,
			Elevation:    it.Elevation.Value,
			Volume:       it.Volume.Value,
			FillFraction: it.FillFraction.Value,
		})
	}

	if skipped > 0 {
		log.Warnf("report %s: skipped %d item(s) without a usable id or date", timeseries.FormatDate(date), skipped)
		AddWarning(ctx, models.Warning{
			Code:    models.WarnMalformedValue,
			Message: fmt.Sprintf("report %s: skipped %d item(s)", timeseries.FormatDate(date), skipped),
		})
	}
	return reservoirs, rows
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
