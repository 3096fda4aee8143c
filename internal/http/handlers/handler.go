package handlers

import (
	"context"
	"crypto/subtle"

	"telegram_assistant/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler processes one Telegram update. *bot.Bot implements it.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// DeliveryRunner runs one reminder delivery pass. *service.DeliveryService implements it.
type DeliveryRunner interface {
	Run(ctx context.Context) (*service.DeliveryResult, error)
}

// Secrets guard the two inbound endpoints. An empty secret rejects every call.
type Secrets struct {
	Cron    string
	Webhook string
}

type Handler struct {
	Updates  UpdateHandler
	Delivery DeliveryRunner
	secrets  Secrets
}

func NewHandler(updates UpdateHandler, delivery DeliveryRunner, secrets Secrets) *Handler {
	return &Handler{
		Updates:  updates,
		Delivery: delivery,
		secrets:  secrets,
	}
}

func secretMatches(configured, got string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(configured)) == 1
}
