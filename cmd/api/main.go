package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-status/internal/core/cache"
	"shipment-status/internal/core/config"
	"shipment-status/internal/core/logger"
	"shipment-status/internal/core/server"
	statusadapters "shipment-status/internal/features/status/adapters"
	statushandler "shipment-status/internal/features/status/handler"
	statusports "shipment-status/internal/features/status/ports"
	statusservice "shipment-status/internal/features/status/service"
	telemetryadapters "shipment-status/internal/features/telemetry/adapters"
	telemetryports "shipment-status/internal/features/telemetry/ports"
	telemetryservice "shipment-status/internal/features/telemetry/service"
	trackingadapter "shipment-status/internal/features/tracking/adapters"
	trackinghandler "shipment-status/internal/features/tracking/handler"
	"shipment-status/internal/features/tracking/ports"
	trackingservice "shipment-status/internal/features/tracking/service"

	"go.uber.org/zap"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// @title Shipment Status API
// @version 1.0
// @description Normalizes logistics provider statuses into a fixed order lifecycle and tracks shipments and orders.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	srv := server.New(cfg)

	// Redis is optional: without it fall-through statuses are only logged and payloads are not cached.
	var redisCache *cache.RedisAdapter
	var recorder statusports.UnmappedRecorder = statusadapters.NopUnmappedRecorder{}
	if cfg.Redis.Enabled() {
		redisCache, err = cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Failed to configure Redis", zap.Error(err))
		}
		defer redisCache.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			l.Warn("Redis not reachable at startup", zap.Error(err))
		} else {
			l.Info("Redis connection verified")
		}
		cancel()

		recorder = statusadapters.NewRedisUnmappedRecorder(redisCache, cfg.Report.MaxStatuses)
		srv.AddHealthCheck("redis", redisCache.Ping)
	}

	// Initialize Status Service & Handler
	statusSvc := statusservice.NewStatusService(recorder, logger.Named("status"))
	statusHdl := statushandler.NewStatusHandler(statusSvc)

	// Initialize Tracking Providers
	providers := []ports.TrackingProvider{
		withPayloadCache(trackingadapter.NewShiprocketAdapter(cfg.Shiprocket), redisCache, cfg.Tracking.CacheTTL()),
	}
	if cfg.Scraper.Enabled() {
		providers = append(providers,
			withPayloadCache(trackingadapter.NewPageScraperAdapter(cfg.Scraper), redisCache, cfg.Tracking.CacheTTL()))
		l.Info("Page scraper fallback enabled", zap.String("page_url", cfg.Scraper.PageURL))
	}
	provider := trackingadapter.NewFallbackProvider(providers...)

	// Initialize Tracking Service & Handler
	trackingSvc := trackingservice.NewTrackingService(provider, statusSvc, cfg.Tracking.MaxConcurrency)
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	// Register Routes
	statusHdl.Register(srv.App)
	trackingHdl.Register(srv.App)

	// Initialize Unmapped Status Report
	var notifier telemetryports.Notifier = telemetryadapters.NewLogNotifier(logger.Named("report"))
	if cfg.Report.SlackWebhookURL != "" {
		notifier = telemetryadapters.NewSlackNotifier(cfg.Report.SlackWebhookURL)
	}
	reporter := telemetryservice.NewReporter(recorder, notifier, cfg.Report.TopN, logger.Named("report"))

	scheduler, err := telemetryservice.NewScheduler(cfg.Report.Schedule, reporter, logger.Named("scheduler"))
	if err != nil {
		l.Fatal("Failed to schedule unmapped status report", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		l.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}

// cacheableProvider is a provider that can also hand out its raw payload.
type cacheableProvider interface {
	ports.TrackingProvider
	trackingadapter.RawSource
}

// withPayloadCache wraps source with the raw payload cache when Redis is configured and ttl is positive.
func withPayloadCache(source cacheableProvider, c *cache.RedisAdapter, ttl time.Duration) ports.TrackingProvider {
	if c == nil || ttl <= 0 {
		return source
	}
	return trackingadapter.NewCachedProvider(source, c, ttl)
}
