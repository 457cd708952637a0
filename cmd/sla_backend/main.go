package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/statement_ledger_app/internal/adapters/ai"
	portssvc "github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/core/services"
	"github.com/SscSPs/statement_ledger_app/internal/handlers"
	"github.com/SscSPs/statement_ledger_app/internal/jobs"
	"github.com/SscSPs/statement_ledger_app/internal/jobs/inmemory"
	"github.com/SscSPs/statement_ledger_app/internal/middleware"
	"github.com/SscSPs/statement_ledger_app/internal/platform/config"
	"github.com/SscSPs/statement_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/statement_ledger_app/pkg/database"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// AI collaborator. A missing API key means degraded mode, not a startup
	// failure.
	var completer portssvc.AICompleter
	gemini, err := ai.NewGeminiCompleter(ctx, ai.Config{
		APIKey:            cfg.GeminiAPIKey,
		Model:             cfg.GeminiModel,
		RequestsPerMinute: cfg.AIRequestsPerMinute,
		MaxAttempts:       cfg.AIMaxAttempts,
	}, logger)
	if err != nil {
		logger.Error("Failed to create AI client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if gemini != nil {
		completer = gemini
	} else {
		logger.Warn("AI enrichment disabled, no API key configured")
	}

	queue := inmemory.NewQueue(cfg.JobQueueSize, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, completer, queue)

	if err := queue.Start(ctx, jobHandler(container)); err != nil {
		logger.Error("Failed to start job consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal, then drain in-flight work.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		logger.Error("Job queue shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("Shutdown complete.")
}

// jobHandler dispatches background jobs to the owning service. Detection
// chains into cancellation enrichment for any new subscription groups.
func jobHandler(container *portssvc.ServiceContainer) jobs.Handler {
	return func(ctx context.Context, job *jobs.Job) error {
		switch job.Type {
		case jobs.TypeCategoriseTransactions:
			return container.Enrichment.CategoriseTransactions(ctx, job.UserID, job.TransactionIDs)

		case jobs.TypeDetectRecurring:
			groups, err := container.Recurring.DetectRecurring(ctx, job.UserID, job.TransactionIDs)
			if err != nil {
				return err
			}
			groupIDs := make([]string, 0, len(groups))
			for i := range groups {
				groupIDs = append(groupIDs, groups[i].GroupID)
			}
			if len(groupIDs) == 0 {
				return nil
			}
			return container.Enrichment.EnrichCancellations(ctx, job.UserID, groupIDs)

		default:
			slog.Warn("Dropping job with unknown type", slog.String("type", string(job.Type)))
			return nil
		}
	}
}

// runMigrations applies all pending SQL migrations before the server starts
// taking traffic.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
