package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	app "github.com/mohammadpnp/admin-bulkops/internal/application/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/bootstrap"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/progress"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := bootstrap.NewLogger(os.Getenv("LOG_LEVEL"), parseBoolEnv("LOG_PRETTY", false))

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	port := getEnv("PORT", "8080")

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pgx pool")
	}
	defer pool.Close()

	if parseBoolEnv("AUTO_MIGRATE", false) {
		if err := bootstrap.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate schema")
		}
	}

	registry, err := app.LoadRegistry()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load operation catalog")
	}

	tracker := progress.NewTracker()

	operationRepo := repository.NewBulkOperationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	handlers := []domain.EntityHandler{
		repository.NewUserBulkRepository(pool),
		repository.NewSubscriptionBulkRepository(pool),
	}

	executor := app.NewExecutor(operationRepo, tracker, auditRepo, handlers, app.ExecutorConfig{
		MaxConcurrent:    parseIntEnv("BULK_MAX_CONCURRENT", 4),
		BatchDelay:       time.Duration(parseIntEnv("BULK_BATCH_DELAY_MS", 0)) * time.Millisecond,
		OperationTimeout: time.Duration(parseIntEnv("BULK_OPERATION_TIMEOUT_SECONDS", 600)) * time.Second,
	}, logger)

	server := bootstrap.NewHTTPServer(db, pool, registry, tracker, executor, logger, bootstrap.Config{
		MaxItems:     parseIntEnv("BULK_MAX_ITEMS", 500),
		PerBatchCost: time.Duration(parseIntEnv("BULK_ESTIMATE_BATCH_SECONDS", 60)) * time.Second,
	})

	go func() {
		if err := server.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := executor.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("executor drain aborted")
	}

	logger.Info().Msg("shut down")
}

func parseIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseBoolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
