/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the farm engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from the environment (.env supported)
  2. Initialize the zap logger
  3. Initialize the SQLite store
  4. Load payroll rules (JSON file, falling back to defaults)
  5. Configure the HTTP router and the audit scheduler
  6. Start the server with graceful shutdown

CONFIGURATION (environment variables):
  APP_PORT               HTTP server port (default: 8080)
  DB_PATH                SQLite database path (default: farm.db)
                         Use ":memory:" for an in-memory database
  CORS_ORIGINS           Comma-separated allowed origins
  PAYROLL_RULES_PATH     Optional JSON rules file
  PAYROLL_AUDIT_CRON     Cron expression for the audit (default: 0 5 * * *)
  PAYROLL_AUDIT_ENABLED  "false" disables the scheduler

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the audit scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the database connection
  5. Exit

SEE ALSO:
  - config: environment loading and validation
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lavoura/farm-engine/api"
	"github.com/lavoura/farm-engine/config"
	"github.com/lavoura/farm-engine/factory"
	"github.com/lavoura/farm-engine/logging"
	"github.com/lavoura/farm-engine/store/sqlite"
)

func main() {
	envFile := flag.String("env", ".env", "path to environment file")
	flag.Parse()

	log := logging.Must(logging.New())
	defer log.Sync()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	rules, err := factory.LoadRulesFile(cfg.Payroll.RulesPath)
	if err != nil {
		log.Fatal("failed to load payroll rules",
			zap.String("path", cfg.Payroll.RulesPath),
			zap.Error(err))
	}

	handler := api.NewHandler(store, rules, logging.Named(log, "api"))
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	scheduler := api.NewAuditScheduler(store, rules, cfg.Scheduler.CronSchedule, logging.Named(log, "scheduler"))
	if cfg.Scheduler.Enabled {
		if err := scheduler.Start(); err != nil {
			log.Fatal("failed to start audit scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
