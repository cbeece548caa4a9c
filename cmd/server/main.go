package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ratiohq/cashup/internal/adapter/external"
	httpAdapter "github.com/ratiohq/cashup/internal/adapter/http"
	"github.com/ratiohq/cashup/internal/adapter/http/handler"
	postgresRepo "github.com/ratiohq/cashup/internal/adapter/repository/postgres"
	redisRepo "github.com/ratiohq/cashup/internal/adapter/repository/redis"
	"github.com/ratiohq/cashup/internal/infrastructure/config"
	"github.com/ratiohq/cashup/internal/infrastructure/logger"
	"github.com/ratiohq/cashup/internal/infrastructure/metrics"
	"github.com/ratiohq/cashup/internal/infrastructure/postgres"
	"github.com/ratiohq/cashup/internal/infrastructure/redis"
	"github.com/ratiohq/cashup/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.SetGlobalLevel(appLogger.GetLevel())

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid site settings")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories and upstream clients
	cashupRepo := postgresRepo.NewCashUpRepository(pool, postgresRepo.NewRetrier(appLogger))
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	paymentsClient := external.NewPaymentsClient(external.Config{
		BaseURL: cfg.PaymentsBaseURL, APIKey: cfg.PaymentsAPIKey, Timeout: cfg.UpstreamTimeout,
		Service: "payments", Metrics: appMetrics,
	})
	forecastClient := external.NewForecastClient(external.Config{
		BaseURL: cfg.ForecastBaseURL, APIKey: cfg.ForecastAPIKey, Timeout: cfg.UpstreamTimeout,
		Service: "forecast", Metrics: appMetrics,
	})
	budgetClient := external.NewBudgetClient(external.Config{
		BaseURL: cfg.BudgetBaseURL, APIKey: cfg.BudgetAPIKey, Timeout: cfg.UpstreamTimeout,
		Service: "budget", Metrics: appMetrics,
	})

	// Initialize use cases
	clock := usecase.Clock(time.Now)
	cashupUC := usecase.NewCashUpUseCase(cashupRepo, paymentsClient, cache, idGen, clock, appLogger, appMetrics)
	reportUC := usecase.NewReportUseCase(cashupRepo, forecastClient, budgetClient, cache, clock, appLogger, appMetrics)
	grids := usecase.NewGridStore()
	selectionUC := usecase.NewSelectionUseCase(grids)

	// Initialize handlers
	cashupHandler := handler.NewCashUpHandler(cashupUC, grids)
	settingsHandler := handler.NewSettingsHandler(settings)
	reportHandler := handler.NewReportHandler(reportUC, grids, settingsHandler.Current, clock)
	selectionHandler := handler.NewSelectionHandler(selectionUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CashUpHandler:    cashupHandler,
		ReportHandler:    reportHandler,
		SelectionHandler: selectionHandler,
		SettingsHandler:  settingsHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
