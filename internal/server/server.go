package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/epeers/reservoirs/config"
	_ "github.com/epeers/reservoirs/docs"
	"github.com/epeers/reservoirs/internal/handlers"
	"github.com/epeers/reservoirs/internal/middleware"
	"github.com/epeers/reservoirs/internal/services"
)

// Services are the dependencies the routes are served from.
type Services struct {
	Readings *services.ReadingService
	Series   *services.SeriesService
	Basin    *services.BasinService
	Status   *services.StatusService
	Ingest   *services.IngestService
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg *config.Config, svcs Services) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS())

	s := &Server{cfg: cfg, engine: engine}
	s.registerRoutes(svcs)
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled, then gives
// outstanding requests a few seconds to complete.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes(svcs Services) {
	reservoirHandler := handlers.NewReservoirHandler(svcs.Readings)
	chartHandler := handlers.NewChartHandler(svcs.Series, svcs.Basin, svcs.Status)
	adminHandler := handlers.NewAdminHandler(svcs.Ingest, s.cfg.IngestDelay)

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	{
		api.GET("/states", reservoirHandler.ListStates)
		api.GET("/reservoirs/:state", reservoirHandler.ListReservoirs)
		api.GET("/reservoir/:id", reservoirHandler.GetReservoir)
		api.GET("/data/:id", reservoirHandler.GetReadings)
		api.GET("/latest/:id", reservoirHandler.GetLatest)
		api.GET("/series/:id", chartHandler.GetSeries)
		api.GET("/basin", chartHandler.GetBasin)
		api.GET("/basin/status", chartHandler.GetBasinStatus)
		api.GET("/status/:id", chartHandler.GetStatus)
	}

	admin := s.engine.Group("/admin", middleware.RequireAdmin(s.cfg.AdminToken))
	{
		admin.POST("/ingest", adminHandler.Ingest)
	}
}
