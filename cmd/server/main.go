package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parttracker/backend-go/internal/api"
	"github.com/parttracker/backend-go/internal/cache"
	"github.com/parttracker/backend-go/internal/config"
	"github.com/parttracker/backend-go/internal/forecast"
	"github.com/parttracker/backend-go/internal/service"
	"github.com/parttracker/backend-go/internal/warehouse"
	"github.com/parttracker/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := warehouse.NewDB(&cfg.Warehouse)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to warehouse")
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without")
		forecastCache = cache.NewNoopForecastCache()
	}

	engine := forecast.NewEngine(forecast.Config{
		SiteSnapshotLags:     cfg.Forecast.SiteSnapshotLags,
		DefaultHorizonMonths: cfg.Forecast.DefaultHorizonMonths,
		MaxHorizonMonths:     cfg.Forecast.MaxHorizonMonths,
	})

	repo := warehouse.NewForecastRepository(db)
	forecastService := service.NewForecastService(repo, engine, forecastCache, cfg.Forecast.UsageWindowDays, cfg.Forecast.SiteSnapshotLags)

	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

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
