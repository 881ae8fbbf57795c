package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/epeers/reservoirs/internal/timeseries"
)

// DefaultBasinCompanions are the reservoirs summed against Lago de Chapala in the basin view.
var DefaultBasinCompanions = []string{
	"SBBMX", "PIRMX", "TEPMC", "PFBMX", "TMUMC", "SLSGJ", "TPTMX", "VGRTP",
	"PNLGJ", "IALGJ", "COIMC", "LDYGJ", "PRSGJ", "EPLGJ", "GLNGJ", "MABGJ",
	"LDFMC", "POLJL", "UREMC", "DGNMC", "GUAMC", "JARMC", "CPAMC",
}

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL    string
	Port     string
	LogLevel string

	// Optional backing services. Empty means disabled.
	RedisURL       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool

	ConaguaBaseURL string
	AdminToken     string

	WindowPolicy       timeseries.WindowPolicy
	BasinWindowPolicy  timeseries.WindowPolicy
	FillRepresentation timeseries.FillRepresentation
	BasinReference     string
	BasinCompanions    []string

	CacheTTL         time.Duration
	FetchConcurrency int
	IngestDelay      time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is read first; variables already set
// in the shell take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	cfg := &Config{
		PGURL:          pgURL,
		Port:           getenv("PORT", "8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		RedisURL:       os.Getenv("REDIS_URL"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "conagua-reports"),
		ConaguaBaseURL: os.Getenv("CONAGUA_BASE_URL"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		BasinReference: getenv("BASIN_REFERENCE", "LDCJL"),
	}

	var err error
	if v := os.Getenv("MINIO_SECURE"); v != "" {
		if cfg.MinioSecure, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid MINIO_SECURE: %s", v)
		}
	}

	if cfg.WindowPolicy, err = timeseries.ParseWindowPolicy(getenv("WINDOW_POLICY", "lastYear")); err != nil {
		return nil, fmt.Errorf("invalid WINDOW_POLICY: %w", err)
	}
	if cfg.BasinWindowPolicy, err = timeseries.ParseWindowPolicy(getenv("BASIN_WINDOW_POLICY", "lastMonth")); err != nil {
		return nil, fmt.Errorf("invalid BASIN_WINDOW_POLICY: %w", err)
	}
	if cfg.FillRepresentation, err = timeseries.ParseFillRepresentation(getenv("FILL_REPRESENTATION", "fraction")); err != nil {
		return nil, fmt.Errorf("invalid FILL_REPRESENTATION: %w", err)
	}

	cfg.BasinCompanions = DefaultBasinCompanions
	if v := os.Getenv("BASIN_COMPANIONS"); v != "" {
		cfg.BasinCompanions = splitIDs(v)
	}

	cfg.CacheTTL = 5 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL: %s", v)
		}
		cfg.CacheTTL = ttl
	}

	cfg.FetchConcurrency = 8
	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid FETCH_CONCURRENCY: %s", v)
		}
		cfg.FetchConcurrency = n
	}

	cfg.IngestDelay = 250 * time.Millisecond
	if v := os.Getenv("INGEST_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid INGEST_DELAY: %s", v)
		}
		cfg.IngestDelay = d
	}

	return cfg, nil
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.ToUpper(strings.TrimSpace(part)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
