// Package app assembles the store, router and HTTP server from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/saxenaaman628/ballot-board/config"
	"github.com/saxenaaman628/ballot-board/internal/api"
	"github.com/saxenaaman628/ballot-board/internal/logger"
	"github.com/saxenaaman628/ballot-board/internal/middleware"
	"github.com/saxenaaman628/ballot-board/internal/redis"
	"github.com/saxenaaman628/ballot-board/internal/store"
	"github.com/saxenaaman628/ballot-board/internal/store/postgres"
	"github.com/saxenaaman628/ballot-board/internal/store/s3"
	"github.com/saxenaaman628/ballot-board/internal/store/sqlite"
	"github.com/saxenaaman628/ballot-board/internal/telemetry"
)

// OpenStore opens the key-value backend named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.KV, error) {
	switch cfg.StoreDriver {
	case "redis":
		rdb, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.RedisURI,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		if err != nil {
			return nil, err
		}
		return redis.NewStore(rdb, cfg.RedisKeyPrefix, log), nil
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case "postgres":
		return postgres.Open(ctx, cfg.DatabaseURL)
	case "s3":
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
			PathStyle: cfg.S3PathStyle,
		})
	case "memory":
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewRouter builds the gin engine serving the JSON API, /health and /metrics.
// Collectors are registered on reg.
func NewRouter(cfg config.Config, kv store.KV, log zerolog.Logger, reg *prometheus.Registry) *gin.Engine {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tracer := telemetry.NewMetricsTracer(telemetry.NewMetrics(reg), log)

	r := gin.New()
	r.Use(gin.Recovery(), logger.Requests(log), middleware.Errors(logger.Component(log, "api")))

	api.New(kv, tracer).RegisterRoutes(r, api.RouteOptions{
		APIToken:  cfg.APIToken,
		JWTSecret: cfg.JWTSecret,
		Ping:      kv.Ping,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return r
}
