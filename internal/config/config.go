package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"telegram_assistant/internal/logger"

	"github.com/joho/godotenv"
)

const (
	BotModeWebhook = "webhook"
	BotModePolling = "polling"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	BotMode     string
	WebhookURL  string
	Location    *time.Location

	// WebhookSecret is the path segment Telegram posts to: /api/webhook/<secret>
	WebhookSecret string
	CronSecret    string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Redis is optional; empty addr disables rate limiting and the delivery lock
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ChatRateLimit    int
	ChatRateWindow   time.Duration
	APIRateLimit     int
	APIRateWindow    time.Duration
	ChatHistoryLimit int

	// zero disables the in-process delivery ticker
	ReminderPollInterval time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment (and .env when present)
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	mode := strings.ToLower(strings.TrimSpace(os.Getenv("BOT_MODE")))
	if mode != BotModePolling {
		mode = BotModeWebhook
	}

	cronSecret := os.Getenv("CRON_SECRET")
	if cronSecret == "" {
		logger.Warn("CRON_SECRET is not set, the cron endpoint will reject every call")
	}

	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" && mode == BotModeWebhook {
		logger.Warn("WEBHOOK_SECRET is not set, the webhook endpoint will reject every update")
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	var pollInterval time.Duration
	if v := os.Getenv("REMINDER_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			pollInterval = d
		} else {
			logger.Warn("invalid REMINDER_POLL_INTERVAL, ticker disabled", "value", v)
		}
	}

	return &Config{
		AppPort:              port,
		DatabaseURL:          dbURL,
		BotToken:             botToken,
		BotMode:              mode,
		WebhookURL:           strings.TrimRight(os.Getenv("WEBHOOK_URL"), "/"),
		WebhookSecret:        webhookSecret,
		CronSecret:           cronSecret,
		Location:             LoadLocation(os.Getenv("TIMEZONE")),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          geminiModel,
		AITimeout:            time.Duration(envInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              envInt("REDIS_DB", 0),
		ChatRateLimit:        envInt("CHAT_RATE_LIMIT", 20),
		ChatRateWindow:       time.Duration(envInt("CHAT_RATE_WINDOW", 60)) * time.Second,
		APIRateLimit:         envInt("API_RATE_LIMIT", 120),
		APIRateWindow:        time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		ChatHistoryLimit:     envInt("CHAT_HISTORY_LIMIT", 10),
		ReminderPollInterval: pollInterval,
		LogLevel:             os.Getenv("LOG_LEVEL"),
		LogFormat:            os.Getenv("LOG_FORMAT"),
	}
}

// LoadLocation resolves the display/reference zone. Without tzdata on the
// host it falls back to a fixed WIB (+07:00) zone.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown TIMEZONE, using fixed +07:00", "timezone", name, "error", err)
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
