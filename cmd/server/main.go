/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the reserve study server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment), apply flag overrides
  2. Build the logger
  3. Initialize SQLite store
  4. Seed a demo scenario if requested and the database is empty
  5. Create service, handler, solvency monitor and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  See config/config.go for the full list (PORT, DB_PATH, LOG_LEVEL,
  LOG_FORMAT, CORS_ORIGINS, DEFAULT_HORIZON_YEARS, CRITICAL_THRESHOLD_YEARS,
  SEED_SCENARIO, MONITOR_INTERVAL).

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the solvency monitor
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/reserve.db"

  # In-memory database seeded with the reference study
  SEED_SCENARIO=golf-view-manor ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/reserve-engine/api"
	"github.com/warp/reserve-engine/config"
	"github.com/warp/reserve-engine/factory"
	"github.com/warp/reserve-engine/logging"
	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/store/sqlite"
	"github.com/warp/reserve-engine/study"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "json").WithError(err).Fatal("failed to load configuration")
	}

	// Flags override the environment
	port := flag.Int("port", 0, "HTTP server port (overrides PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	flag.Parse()
	if *port != 0 {
		cfg.Port = strconv.Itoa(*port)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("configuration validation failed")
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.WithError(err).WithField("path", cfg.DBPath).Fatal("failed to initialize database")
	}
	defer store.Close()

	engine := reserve.Engine{CriticalThreshold: cfg.CriticalThresholdYears}
	svc := study.NewService(store, engine, logger)
	studyFactory := factory.NewStudyFactory().WithDefaultHorizon(cfg.DefaultHorizonYears)
	handler := api.NewHandler(svc, store, studyFactory, logger)

	if cfg.SeedScenario != "" {
		seed(context.Background(), handler, svc, logger, cfg.SeedScenario)
	}

	monitor := api.NewSolvencyMonitor(svc, logger)
	monitor.CheckInterval = cfg.MonitorInterval
	monitor.Enabled = cfg.MonitorInterval > 0
	monitor.Start()

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORSOrigins,
		Monitor:        monitor,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return
	}

	logger.Info("server stopped")
}

// seed loads a demo scenario into an empty database. Existing data is kept.
func seed(ctx context.Context, h *api.Handler, svc *study.Service, logger *logrus.Logger, scenario string) {
	existing, err := svc.ListStudies(ctx)
	if err != nil {
		logger.WithError(err).Warn("could not check for existing studies; skipping seed")
		return
	}
	if len(existing) > 0 {
		logger.WithField("studies", len(existing)).Info("database not empty; skipping seed")
		return
	}
	if err := h.LoadScenarioByID(ctx, scenario); err != nil {
		logger.WithError(err).WithField("scenario", scenario).Warn("seed failed")
	}
}
