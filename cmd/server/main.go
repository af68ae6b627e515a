// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/praveenkumar-ap/PulseCast/internal/api"
	"github.com/praveenkumar-ap/PulseCast/internal/cache"
	"github.com/praveenkumar-ap/PulseCast/internal/config"
	"github.com/praveenkumar-ap/PulseCast/internal/repository/postgres"
	"github.com/praveenkumar-ap/PulseCast/internal/service"
	"github.com/praveenkumar-ap/PulseCast/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	forecastRepo := postgres.NewForecastRepository(db)
	scenarioRepo := postgres.NewScenarioRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)

	// Initialize cache
	recCache, err := cache.NewRecommendationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("recommendation cache unavailable, continuing without it")
		recCache = cache.NewNoopRecommendationCache()
	}

	// Initialize services
	services := &api.Services{
		ScenarioService:  service.NewScenarioService(forecastRepo, scenarioRepo, ledgerRepo),
		OptimizerService: service.NewOptimizerService(forecastRepo, scenarioRepo, inventoryRepo, recCache),
		ForecastService:  service.NewForecastService(forecastRepo),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
