package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/reservoirs/internal/cache"
	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/repository"
	"github.com/epeers/reservoirs/internal/timeseries"
	"github.com/epeers/reservoirs/internal/util"
)

// ErrReservoirNotFound is returned when a reservoir id is unknown.
var ErrReservoirNotFound = repository.ErrReservoirNotFound

// ReservoirStore reads reservoir metadata.
type ReservoirStore interface {
	ListStates(ctx context.Context) ([]string, error)
	ListByState(ctx context.Context, state string) ([]models.ReservoirRef, error)
	GetByID(ctx context.Context, id string) (*models.Reservoir, error)
}

// ReadingStore reads daily readings.
type ReadingStore interface {
	GetReadings(ctx context.Context, reservoirID string, startDate, endDate *time.Time) ([]timeseries.RawReading, error)
	GetLatest(ctx context.Context, reservoirID string) (*timeseries.RawReading, error)
}

// ReadingCache caches reading arrays by range key.
type ReadingCache interface {
	GetReadings(ctx context.Context, key string, expiresAt time.Time) ([]timeseries.RawReading, bool)
	SetReadings(ctx context.Context, key string, data []timeseries.RawReading, expiresAt time.Time)
	Clear(ctx context.Context) error
}

// ReadingService is the data service behind the dashboard: state and reservoir
// lists, reservoir metadata, and raw reading ranges.
type ReadingService struct {
	reservoirs ReservoirStore
	readings   ReadingStore
	cache      ReadingCache
	now        func() time.Time
}

// NewReadingService creates a new ReadingService. cache may be nil.
func NewReadingService(reservoirs ReservoirStore, readings ReadingStore, c ReadingCache) *ReadingService {
	if c == nil {
		c = cache.NewTiered()
	}
	return &ReadingService{
		reservoirs: reservoirs,
		readings:   readings,
		cache:      c,
		now:        time.Now,
	}
}

// ListStates returns the states that have reservoirs, sorted.
func (s *ReadingService) ListStates(ctx context.Context) ([]string, error) {
	return s.reservoirs.ListStates(ctx)
}

// ListReservoirs returns the reservoirs of a state ordered by name.
func (s *ReadingService) ListReservoirs(ctx context.Context, state string) ([]models.ReservoirRef, error) {
	return s.reservoirs.ListByState(ctx, state)
}

// GetReservoir returns the static metadata of a reservoir.
func (s *ReadingService) GetReservoir(ctx context.Context, id string) (*models.Reservoir, error) {
	return s.reservoirs.GetByID(ctx, id)
}

// GetReadings returns the raw readings of a reservoir within an inclusive range.
// Results are cached until the next CONAGUA report is due.
func (s *ReadingService) GetReadings(ctx context.Context, id string, startDate, endDate *time.Time) ([]timeseries.RawReading, error) {
	defer TrackTime("GetReadings", time.Now())

	key := cache.ReadingsKey(id, startDate, endDate)
	expiresAt := util.NextReportDate(s.now())

	if data, ok := s.cache.GetReadings(ctx, key, expiresAt); ok {
		log.Debugf("readings cache hit %s", key)
		return data, nil
	}

	data, err := s.readings.GetReadings(ctx, id, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get readings for %s: %w", id, err)
	}
	s.cache.SetReadings(ctx, key, data, expiresAt)
	return data, nil
}

// GetLatest returns the most recent raw reading, or ErrReservoirNotFound when
// the reservoir has none.
func (s *ReadingService) GetLatest(ctx context.Context, id string) (*timeseries.RawReading, error) {
	latest, err := s.readings.GetLatest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading for %s: %w", id, err)
	}
	if latest == nil {
		return nil, ErrReservoirNotFound
	}
	return latest, nil
}

// Invalidate drops every cached reading range.
func (s *ReadingService) Invalidate(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
