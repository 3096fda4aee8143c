package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"telegram_assistant/internal/logger"

	"github.com/gin-gonic/gin"
)

const cronTimeout = 2 * time.Minute

// DeliverReminders runs one delivery pass for an external scheduler. Callers
// must send "Authorization: Bearer <CRON_SECRET>"; with no secret configured
// every call is rejected.
func (h *Handler) DeliverReminders(c *gin.Context) {
	if !h.cronAuthorized(c.GetHeader("Authorization")) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// a scheduler hanging up must not cut a pass between send and mark
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), cronTimeout)
	defer cancel()

	result, err := h.Delivery.Run(ctx)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("cron delivery failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load due reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"run_id":    result.RunID,
		"checked":   result.Checked,
		"sent":      result.Sent,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
		"timestamp": result.Timestamp.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) cronAuthorized(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && secretMatches(h.secrets.Cron, token)
}
