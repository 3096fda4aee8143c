package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram_assistant/internal/ai"
	"telegram_assistant/internal/bot"
	"telegram_assistant/internal/cache"
	"telegram_assistant/internal/config"
	"telegram_assistant/internal/db"
	httpServer "telegram_assistant/internal/http"
	"telegram_assistant/internal/http/handlers"
	"telegram_assistant/internal/logger"
	"telegram_assistant/internal/repository"
	"telegram_assistant/internal/service"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	ledger := service.NewLedgerService(repository.NewTransactionRepository(dbPool), cfg.Location)
	reminders := service.NewReminderService(repository.NewReminderRepository(dbPool))

	var completer service.Completer
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("gemini unavailable, chat will apologise", "error", err)
		} else {
			defer gemini.Close()
			completer = gemini
		}
	} else {
		logger.Warn("GEMINI_API_KEY is not set, chat will apologise")
	}
	chat := service.NewChatService(repository.NewChatRepository(dbPool), completer, cfg.ChatHistoryLimit, cfg.AITimeout)

	handler := bot.NewHandler(ledger, reminders, chat, cache.NewRateLimiter(rdb), bot.HandlerConfig{
		Location:       cfg.Location,
		ChatRateLimit:  cfg.ChatRateLimit,
		ChatRateWindow: cfg.ChatRateWindow,
	})

	tg, err := bot.New(cfg.BotToken, handler, cfg.Location)
	if err != nil {
		logger.Fatal("failed to init telegram bot", "error", err)
	}
	if err := tg.RegisterCommands(); err != nil {
		logger.Warn("failed to register bot commands", "error", err)
	}

	delivery := service.NewDeliveryService(reminders, tg, cache.NewLock(rdb))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.ReminderPollInterval > 0 {
		delivery.Start(ctx, cfg.ReminderPollInterval)
	}

	if cfg.BotMode == config.BotModePolling {
		go tg.Start()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	httpServer.RegisterRoutes(r, handlers.NewHandler(tg, delivery, handlers.Secrets{
		Cron:    cfg.CronSecret,
		Webhook: cfg.WebhookSecret,
	}), dbPool, rdb, httpServer.RouteConfig{
		Version:       version,
		APIRateLimit:  cfg.APIRateLimit,
		APIRateWindow: cfg.APIRateWindow,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "bot_mode", cfg.BotMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	if cfg.BotMode == config.BotModePolling {
		tg.Stop()
	}
	stop()
	if cfg.ReminderPollInterval > 0 {
		delivery.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
