package main

import (
	"flag"
	"net/url"
	"os"
	"strings"

	"telegram_assistant/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

// setup_webhook points Telegram at <WEBHOOK_URL>/api/webhook/<WEBHOOK_SECRET>,
// or removes the webhook with -delete so the bot can run in polling mode.
func main() {
	remove := flag.Bool("delete", false, "delete the webhook instead of setting it")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Fatal("failed to authorize bot", "error", err)
	}

	if *remove {
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
			logger.Fatal("failed to delete webhook", "error", err)
		}
		logger.Info("webhook deleted", "bot", api.Self.UserName)
		return
	}

	base := strings.TrimRight(os.Getenv("WEBHOOK_URL"), "/")
	if base == "" {
		logger.Fatal("WEBHOOK_URL is not set")
	}

	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		logger.Fatal("WEBHOOK_SECRET is not set")
	}
	if url.PathEscape(secret) != secret {
		logger.Fatal("WEBHOOK_SECRET must be URL-safe (letters, digits, '-', '_')")
	}

	wh, err := tgbotapi.NewWebhook(base + "/api/webhook/" + secret)
	if err != nil {
		logger.Fatal("invalid webhook url", "error", err)
	}
	wh.AllowedUpdates = []string{"message"}
	wh.DropPendingUpdates = true

	if _, err := api.Request(wh); err != nil {
		logger.Fatal("failed to set webhook", "error", err)
	}

	info, err := api.GetWebhookInfo()
	if err != nil {
		logger.Fatal("failed to read webhook info", "error", err)
	}
	logger.Info("webhook set",
		"bot", api.Self.UserName,
		"url", strings.Replace(info.URL, secret, "<secret>", 1),
		"pending_updates", info.PendingUpdateCount,
		"last_error", info.LastErrorMessage,
	)
}
