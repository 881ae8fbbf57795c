package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/timeseries"
)

// ReadingRepository handles database operations for daily reservoir readings
type ReadingRepository struct {
	pool *pgxpool.Pool
}

// IngestRange is the span of report dates that have been loaded.
type IngestRange struct {
	StartDate time.Time
	EndDate   time.Time
}

// NewReadingRepository creates a new ReadingRepository
func NewReadingRepository(pool *pgxpool.Pool) *ReadingRepository {
	return &ReadingRepository{pool: pool}
}

// readingColumns joins the static capacity so fill_percentage can be derived.
// fill_percentage is NULL when the capacity is unknown or zero.
const readingColumns = `
	d.fechamonitoreo, d.clavesih, r.nombrecomun, d.almacenaactual, d.llenano,
	CASE WHEN r.namoalmac > 0 THEN d.almacenaactual / r.namoalmac * 100 END,
	d.elevacionactual
`

func scanReading(row pgx.Row) (timeseries.RawReading, error) {
	var rr timeseries.RawReading
	var date time.Time
	err := row.Scan(&date, &rr.ReservoirID, &rr.ReservoirName, &rr.CurrentVolume,
		&rr.FillFraction, &rr.FillPercentage, &rr.Elevation)
	if err != nil {
		return rr, err
	}
	rr.Date = timeseries.FormatDate(date)
	return rr, nil
}

// GetReadings returns the readings of a reservoir within an inclusive date range.
// A nil bound leaves that side of the range open.
func (r *ReadingRepository) GetReadings(ctx context.Context, reservoirID string, startDate, endDate *time.Time) ([]timeseries.RawReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM reservoir_data d
		JOIN reservoirs r ON r.clavesih = d.clavesih
		WHERE d.clavesih = $1
		  AND ($2::date IS NULL OR d.fechamonitoreo >= $2::date)
		  AND ($3::date IS NULL OR d.fechamonitoreo <= $3::date)
		ORDER BY d.fechamonitoreo ASC
	`
	rows, err := r.pool.Query(ctx, query, reservoirID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings := []timeseries.RawReading{}
	for rows.Next() {
		rr, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, rr)
	}
	return readings, rows.Err()
}

// GetLatest returns the most recent reading of a reservoir, or nil when it has none.
func (r *ReadingRepository) GetLatest(ctx context.Context, reservoirID string) (*timeseries.RawReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM reservoir_data d
		JOIN reservoirs r ON r.clavesih = d.clavesih
		WHERE d.clavesih = $1
		ORDER BY d.fechamonitoreo DESC
		LIMIT 1
	`
	rr, err := scanReading(r.pool.QueryRow(ctx, query, reservoirID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return &rr, nil
}

// UpsertReadings stores daily readings; a re-ingested date overwrites the stored values.
func (r *ReadingRepository) UpsertReadings(ctx context.Context, readings []models.ReadingRow) error {
	if len(readings) == 0 {
		return nil
	}

	query := `
		INSERT INTO reservoir_data (clavesih, fechamonitoreo, elevacionactual, almacenaactual, llenano)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (clavesih, fechamonitoreo) DO UPDATE
		SET elevacionactual = EXCLUDED.elevacionactual,
		    almacenaactual = EXCLUDED.almacenaactual,
		    llenano = EXCLUDED.llenano
	`

	batch := &pgx.Batch{}
	for _, rd := range readings {
		batch.Queue(query, rd.ReservoirID, rd.Date, rd.Elevation, rd.Volume, rd.FillFraction)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, rd := range readings {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert reading %s@%s: %w", rd.ReservoirID, timeseries.FormatDate(rd.Date), err)
		}
	}
	return nil
}

// GetIngestRange returns the loaded report date span, or nil before the first ingest.
func (r *ReadingRepository) GetIngestRange(ctx context.Context) (*IngestRange, error) {
	ir := &IngestRange{}
	err := r.pool.QueryRow(ctx, `SELECT start_date, end_date FROM ingest_range WHERE id = 1`).Scan(&ir.StartDate, &ir.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest range: %w", err)
	}
	return ir, nil
}

// UpsertIngestRange expands the loaded span using LEAST/GREATEST to merge with existing data
func (r *ReadingRepository) UpsertIngestRange(ctx context.Context, startDate, endDate time.Time) error {
	query := `
		INSERT INTO ingest_range (id, start_date, end_date, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET start_date = LEAST(ingest_range.start_date, EXCLUDED.start_date),
		    end_date = GREATEST(ingest_range.end_date, EXCLUDED.end_date),
		    updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, startDate, endDate); err != nil {
		return fmt.Errorf("failed to upsert ingest range: %w", err)
	}
	return nil
}
