package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epeers/reservoirs/internal/models"
)

var ErrReservoirNotFound = errors.New("reservoir not found")

// ReservoirRepository handles database operations for reservoir metadata
type ReservoirRepository struct {
	pool *pgxpool.Pool
}

// NewReservoirRepository creates a new ReservoirRepository
func NewReservoirRepository(pool *pgxpool.Pool) *ReservoirRepository {
	return &ReservoirRepository{pool: pool}
}

// ListStates returns the distinct states that have at least one reservoir, sorted.
func (r *ReservoirRepository) ListStates(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT estado FROM reservoirs WHERE estado <> '' ORDER BY estado`)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	states := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

// ListByState returns the reservoirs of a state ordered by common name.
func (r *ReservoirRepository) ListByState(ctx context.Context, state string) ([]models.ReservoirRef, error) {
	query := `
		SELECT clavesih, nombrecomun
		FROM reservoirs
		WHERE estado = $1
		ORDER BY nombrecomun, clavesih
	`
	rows, err := r.pool.Query(ctx, query, state)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservoirs: %w", err)
	}
	defer rows.Close()

	refs := []models.ReservoirRef{}
	for rows.Next() {
		var ref models.ReservoirRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan reservoir: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// GetByID retrieves the full metadata of one reservoir
func (r *ReservoirRepository) GetByID(ctx context.Context, id string) (*models.Reservoir, error) {
	query := `
		SELECT clavesih, nombreoficial, nombrecomun, estado, nommunicipio, regioncna,
		       latitud, longitud, uso, corriente, tipovertedor, inicioop, elevcorona,
		       bordolibre, nameelev, namealmac, namoelev, namoalmac, alturacortina
		FROM reservoirs
		WHERE clavesih = $1
	`
	res := &models.Reservoir{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.OfficialName, &res.CommonName, &res.State, &res.Municipality, &res.Region,
		&res.Latitude, &res.Longitude, &res.Use, &res.Stream, &res.SpillwayType, &res.OperationStart,
		&res.CrestElevation, &res.Freeboard, &res.NAMEElevation, &res.NAMEStorage, &res.NAMOElevation,
		&res.NAMOStorage, &res.DamHeight,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReservoirNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservoir: %w", err)
	}
	return res, nil
}

// UpsertReservoirs inserts reservoir metadata. With overwrite set, existing
// rows are refreshed too; backfills of older reports pass false so they only
// add dams that were never seen.
func (r *ReservoirRepository) UpsertReservoirs(ctx context.Context, reservoirs []models.Reservoir, overwrite bool) error {
	if len(reservoirs) == 0 {
		return nil
	}

	insert := `
		INSERT INTO reservoirs (clavesih, nombreoficial, nombrecomun, estado, nommunicipio, regioncna,
		                        latitud, longitud, uso, corriente, tipovertedor, inicioop, elevcorona,
		                        bordolibre, nameelev, namealmac, namoelev, namoalmac, alturacortina, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
	`
	query := insert + `ON CONFLICT (clavesih) DO NOTHING`
	if overwrite {
		query = insert + `
		ON CONFLICT (clavesih) DO UPDATE
		SET nombreoficial = EXCLUDED.nombreoficial, nombrecomun = EXCLUDED.nombrecomun,
		    estado = EXCLUDED.estado, nommunicipio = EXCLUDED.nommunicipio, regioncna = EXCLUDED.regioncna,
		    latitud = EXCLUDED.latitud, longitud = EXCLUDED.longitud, uso = EXCLUDED.uso,
		    corriente = EXCLUDED.corriente, tipovertedor = EXCLUDED.tipovertedor, inicioop = EXCLUDED.inicioop,
		    elevcorona = EXCLUDED.elevcorona, bordolibre = EXCLUDED.bordolibre, nameelev = EXCLUDED.nameelev,
		    namealmac = EXCLUDED.namealmac, namoelev = EXCLUDED.namoelev, namoalmac = EXCLUDED.namoalmac,
		    alturacortina = EXCLUDED.alturacortina, updated_at = NOW()
	`
	}

	batch := &pgx.Batch{}
	for _, res := range reservoirs {
		batch.Queue(query,
			res.ID, res.OfficialName, res.CommonName, res.State, res.Municipality, res.Region,
			res.Latitude, res.Longitude, res.Use, res.Stream, res.SpillwayType, res.OperationStart,
			res.CrestElevation, res.Freeboard, res.NAMEElevation, res.NAMEStorage, res.NAMOElevation,
			res.NAMOStorage, res.DamHeight,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, res := range reservoirs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert reservoir %s: %w", res.ID, err)
		}
	}
	return nil
}
