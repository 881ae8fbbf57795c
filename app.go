package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/reservoirs/config"
	"github.com/epeers/reservoirs/internal/archive"
	"github.com/epeers/reservoirs/internal/cache"
	"github.com/epeers/reservoirs/internal/conagua"
	"github.com/epeers/reservoirs/internal/database"
	"github.com/epeers/reservoirs/internal/repository"
	"github.com/epeers/reservoirs/internal/server"
	"github.com/epeers/reservoirs/internal/services"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	db      *database.DB
	redis   *cache.RedisCache
	archive *archive.ReportArchive
	svcs    server.Services
}

// newApp connects to the database and the optional backing services and
// builds every service. Redis and MinIO failures are logged and the feature
// is disabled; a database failure is fatal.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	a := &app{db: db}

	tiers := []cache.ReadingStore{cache.NewMemoryCache(cfg.CacheTTL)}
	if cfg.RedisURL != "" {
		a.redis, err = cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Warnf("Redis cache disabled: %v", err)
		} else {
			tiers = append(tiers, a.redis)
		}
	}

	var reportArchive services.ReportArchive
	if cfg.MinioEndpoint != "" {
		a.archive, err = archive.New(ctx, archive.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Secure:    cfg.MinioSecure,
		})
		if err != nil {
			log.Warnf("Report archive disabled: %v", err)
		} else {
			reportArchive = a.archive
		}
	}

	reservoirRepo := repository.NewReservoirRepository(db.Pool)
	readingRepo := repository.NewReadingRepository(db.Pool)

	readingSvc := services.NewReadingService(reservoirRepo, readingRepo, cache.NewTiered(tiers...))
	a.svcs = server.Services{
		Readings: readingSvc,
		Series:   services.NewSeriesService(readingSvc, cfg.WindowPolicy, cfg.FillRepresentation),
		Basin: services.NewBasinService(readingSvc, services.BasinConfig{
			ReferenceID:  cfg.BasinReference,
			CompanionIDs: cfg.BasinCompanions,
			Policy:       cfg.BasinWindowPolicy,
			Concurrency:  cfg.FetchConcurrency,
		}, cfg.FillRepresentation),
		Status: services.NewStatusService(readingSvc, cfg.FillRepresentation),
		Ingest: services.NewIngestService(
			conagua.NewClientWithBaseURL(cfg.ConaguaBaseURL),
			reportArchive,
			reservoirRepo,
			readingRepo,
			readingSvc,
		),
	}
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warnf("failed to close Redis: %v", err)
		}
	}
	a.db.Close()
}
