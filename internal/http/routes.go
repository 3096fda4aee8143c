package http

import (
	"context"
	"time"

	"telegram_assistant/internal/cache"
	"telegram_assistant/internal/http/handlers"
	"telegram_assistant/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

type RouteConfig struct {
	Version       string
	APIRateLimit  int
	APIRateWindow time.Duration
}

// RegisterRoutes mounts the webhook, cron, health and metrics endpoints.
// Telegram is pointed at /api/webhook/<WEBHOOK_SECRET> by cmd/setup_webhook.
// rdb may be nil, in which case /api is throttled in-process.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, db handlers.Pinger, rdb *redis.Client, cfg RouteConfig) {
	r.Use(middleware.RequestID(), middleware.Metrics())

	healthHandler := handlers.NewHealthHandler(db, cfg.Version)
	if rdb != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	window := cfg.APIRateWindow
	if window <= 0 {
		window = time.Minute
	}
	var limit gin.HandlerFunc
	if rdb != nil {
		limit = middleware.RedisRateLimit(cache.NewRateLimiter(rdb), cfg.APIRateLimit, window)
	} else {
		limit = middleware.SimpleRateLimit(cfg.APIRateLimit, window)
	}

	api := r.Group("/api")
	api.POST("/webhook/:secret", h.Webhook)

	cron := api.Group("/cron", limit)
	cron.GET("/reminders", h.DeliverReminders)
	cron.POST("/reminders", h.DeliverReminders)
}
