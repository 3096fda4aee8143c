package handlers

import (
	"context"
	"net/http"
	"time"

	"telegram_assistant/internal/logger"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const webhookTimeout = 60 * time.Second

// Webhook receives updates pushed by Telegram on /api/webhook/:secret. The
// path secret is the only proof a request comes from Telegram, since updates
// carry the sender id we scope data by. Once authenticated it always answers
// 200 so that Telegram does not redeliver an update we could not use.
func (h *Handler) Webhook(c *gin.Context) {
	if !secretMatches(h.secrets.Webhook, c.Param("secret")) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	log := logger.WithContext(c.Request.Context())

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Warn("invalid webhook payload", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// finish the update even if Telegram drops the connection
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), webhookTimeout)
	defer cancel()

	h.Updates.HandleUpdate(ctx, update)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
