// ABOUTME: Main entry point for the OtakuBantu API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"otakubantu-api/api"
	"otakubantu-api/api/handlers"
	"otakubantu-api/core/cache"
	"otakubantu-api/core/gateway"
	"otakubantu-api/core/interfaces"
	"otakubantu-api/core/ratelimit"
	"otakubantu-api/core/resolver"
	"otakubantu-api/infrastructure/cache/memory"
	"otakubantu-api/infrastructure/cache/redis"
	"otakubantu-api/infrastructure/cache/sqlite"
	logruslogger "otakubantu-api/infrastructure/logger/logrus"
	stdlogger "otakubantu-api/infrastructure/logger/standard"
	"otakubantu-api/infrastructure/metrics"
	"otakubantu-api/infrastructure/sources"
	"otakubantu-api/pkg/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, errorLog, closeLog := newLogger(cfg.Log)
	defer closeLog()

	logger.Info("Starting OtakuBantu API", map[string]interface{}{
		"port":          cfg.Server.Port,
		"cache_type":    cfg.Cache.Type,
		"rate_limit":    cfg.RateLimit.Limit,
		"rate_window":   cfg.RateLimit.Window.String(),
		"single_flight": cfg.Resolver.SingleFlight,
	})

	backend, cacheType := newCacheBackend(cfg, logger)
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	promMetrics := metrics.NewPrometheus()

	deps := interfaces.Dependencies{
		Logger:  logger,
		Metrics: promMetrics,
	}

	upstreams, err := sources.Build(cfg.Sources, logger)
	if err != nil {
		log.Fatalf("Invalid source configuration: %v", err)
	}

	cascade, err := resolver.NewResolver(upstreams, deps)
	if err != nil {
		log.Fatalf("Invalid source configuration: %v", err)
	}

	resultCache := cache.NewResultCache(backend, cache.Policy{
		TTL:         cfg.Cache.TTL,
		NegativeTTL: cfg.Cache.NegativeTTL,
	}, logger)

	limiter := ratelimit.NewLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	defer limiter.Close()

	gw := gateway.NewGateway(cascade, resultCache, limiter, deps, gateway.Options{
		SingleFlight: cfg.Resolver.SingleFlight,
	})

	humaAPI, router := api.NewAPI(api.APIConfig{
		Logger:         logger,
		Observer:       promMetrics,
		MetricsHandler: promMetrics.Handler(),
	})

	handlers.NewAnimeHandler(gw).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(cacheType, cascade.Descriptors()).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     errorLog,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	logger.Info("Server stopped", nil)
}

// newLogger builds the JSON logrus logger, or the plain line logger when
// LOG_FORMAT=text. The returned *log.Logger feeds http.Server errors into it.
func newLogger(cfg config.LogConfig) (interfaces.Logger, *log.Logger, func()) {
	if cfg.Format == config.LogFormatText {
		logger := stdlogger.NewStandardLoggerWithWriter(os.Stdout, stdlogger.ParseLevel(cfg.Level))
		return logger, log.New(os.Stderr, "[ERROR] ", log.LstdFlags), func() {}
	}

	logger := logruslogger.New(logruslogger.Options{
		Level: cfg.Level,
		File:  cfg.File,
	})
	writer := logger.Writer()
	return logger, log.New(writer, "", 0), func() {
		_ = writer.Close()
		_ = logger.Close()
	}
}

// newCacheBackend opens the configured backend. An unreachable Redis or an
// unusable SQLite file degrades to the in-process cache rather than
// refusing to start.
func newCacheBackend(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, string) {
	switch cfg.Cache.Type {
	case config.CacheRedis:
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
			return redisCache, config.CacheRedis
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	case config.CacheSQLite:
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path, logger)
		if err == nil {
			logger.Info("Using SQLite cache", map[string]interface{}{
				"path": cfg.Cache.SQLite.Path,
			})
			return sqliteCache, config.CacheSQLite
		}
		logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(), config.CacheMemory
}

func init() {
	fmt.Println(`
  ___  _        _          ____              _
 / _ \| |_ __ _| | ___   _| __ )  __ _ _ __ | |_ _   _
| | | | __/ _' | |/ / | | |  _ \ / _' | '_ \| __| | | |
| |_| | || (_| |   <| |_| | |_) | (_| | | | | |_| |_| |
 \___/ \__\__,_|_|\_\\__,_|____/ \__,_|_| |_|\__|\__,_|
	`)
}
