package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"telegram_assistant/internal/domain"
	"telegram_assistant/internal/logger"
	"telegram_assistant/internal/metrics"
	"telegram_assistant/internal/parser"
	"telegram_assistant/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Limiter throttles free-text chat per user. *cache.RateLimiter implements it.
type Limiter interface {
	Allow(ctx context.Context, scope, ident string, max int, window time.Duration) (bool, error)
}

type HandlerConfig struct {
	Location       *time.Location
	ChatRateLimit  int
	ChatRateWindow time.Duration
}

// Handler turns an incoming message into the reply text. It never talks to
// Telegram itself, so it can be driven from webhook, polling or tests.
type Handler struct {
	ledger    *service.LedgerService
	reminders *service.ReminderService
	chat      *service.ChatService
	limiter   Limiter
	cfg       HandlerConfig
	now       func() time.Time
}

func NewHandler(ledger *service.LedgerService, reminders *service.ReminderService, chat *service.ChatService, limiter Limiter, cfg HandlerConfig) *Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ChatRateWindow <= 0 {
		cfg.ChatRateWindow = time.Minute
	}
	return &Handler{
		ledger:    ledger,
		reminders: reminders,
		chat:      chat,
		limiter:   limiter,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Handle returns the reply for msg, or "" when there is nothing to say
func (h *Handler) Handle(ctx context.Context, msg *tgbotapi.Message) string {
	if msg == nil || msg.From == nil || msg.Text == "" {
		return ""
	}
	userID := msg.From.ID
	ctx = logger.NewContext(ctx, "user_id", userID)

	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	label := command
	switch command {
	case "start":
		return h.count(label, startText(msg.From.FirstName))
	case "help":
		return h.count(label, helpText)
	case "keluar":
		return h.count(label, h.record(ctx, userID, domain.KindExpense, args))
	case "masuk":
		return h.count(label, h.record(ctx, userID, domain.KindIncome, args))
	case "laporan":
		return h.count(label, h.monthlyReport(ctx, userID))
	case "laporan_lengkap":
		return h.count(label, h.detailedReport(ctx, userID))
	case "reminder":
		return h.count(label, h.scheduleReminder(ctx, userID, args))
	case "list_reminder":
		return h.count(label, h.listReminders(ctx, userID))
	case "hapus_reminder":
		return h.count(label, h.deleteReminder(ctx, userID, args))
	default:
		// unknown commands are just text for the assistant
		return h.count("chat", h.converse(ctx, userID, msg.Text))
	}
}

func (h *Handler) count(command, reply string) string {
	metrics.Commands.WithLabelValues(command).Inc()
	return reply
}

func (h *Handler) record(ctx context.Context, userID int64, kind, args string) string {
	if args == "" {
		if kind == domain.KindExpense {
			return msgExpenseUsage
		}
		return msgIncomeUsage
	}

	parts := strings.Fields(args)
	amount, ok := parser.ParseAmount(parts[0])
	if !ok || amount <= 0 {
		return msgInvalidAmount
	}
	description := strings.Join(parts[1:], " ")

	tx, err := h.ledger.Record(ctx, userID, kind, amount, description)
	if errors.Is(err, service.ErrInvalidAmount) {
		return msgInvalidAmount
	}
	if err != nil {
		logger.WithContext(ctx).Error("failed to record transaction", "kind", kind, "error", err)
		return msgInternal
	}
	metrics.TransactionsRecorded.WithLabelValues(kind).Inc()
	return receiptText(tx, h.cfg.Location)
}

func (h *Handler) monthlyReport(ctx context.Context, userID int64) string {
	sum, err := h.ledger.MonthlySummary(ctx, userID, h.now())
	if errors.Is(err, service.ErrNoTransactions) {
		return msgNoTransactions
	}
	if err != nil {
		logger.WithContext(ctx).Error("failed to build monthly report", "error", err)
		return msgInternal
	}
	return summaryText(sum, h.cfg.Location)
}

func (h *Handler) detailedReport(ctx context.Context, userID int64) string {
	rep, err := h.ledger.DetailedReport(ctx, userID, h.now())
	if errors.Is(err, service.ErrNoTransactions) {
		return msgNoTransactionsDetail
	}
	if err != nil {
		logger.WithContext(ctx).Error("failed to build detailed report", "error", err)
		return msgInternal
	}
	return detailedText(rep, h.cfg.Location)
}

func (h *Handler) scheduleReminder(ctx context.Context, userID int64, args string) string {
	if args == "" {
		return msgReminderUsage
	}

	// "besok HH:MM" is the only two-word time expression
	parts := strings.Fields(args)
	var timeExpr, message string
	if strings.EqualFold(parts[0], "besok") && len(parts) >= 3 {
		timeExpr = parts[0] + " " + parts[1]
		message = strings.Join(parts[2:], " ")
	} else {
		timeExpr = parts[0]
		message = strings.Join(parts[1:], " ")
	}
	if message == "" {
		return msgReminderNoMessage
	}

	remindAt, ok := parser.ParseRemindTime(timeExpr, h.now(), h.cfg.Location)
	if !ok {
		return msgReminderBadTime
	}

	rem, err := h.reminders.Schedule(ctx, userID, message, remindAt)
	if errors.Is(err, service.ErrEmptyMessage) {
		return msgReminderNoMessage
	}
	if err != nil {
		logger.WithContext(ctx).Error("failed to schedule reminder", "error", err)
		return msgInternal
	}
	metrics.RemindersScheduled.Inc()
	return reminderSavedText(rem, h.cfg.Location)
}

func (h *Handler) listReminders(ctx context.Context, userID int64) string {
	list, err := h.reminders.ListActive(ctx, userID)
	if err != nil {
		logger.WithContext(ctx).Error("failed to list reminders", "error", err)
		return msgInternal
	}
	return reminderListText(list, h.cfg.Location)
}

func (h *Handler) deleteReminder(ctx context.Context, userID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return msgDeleteUsage
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return msgDeleteUsage
	}

	rem, err := h.reminders.Delete(ctx, id, userID)
	if err != nil {
		logger.WithContext(ctx).Error("failed to delete reminder", "reminder_id", id, "error", err)
		return msgInternal
	}
	if rem == nil {
		return msgReminderNotFound
	}
	return reminderDeletedText(rem)
}

func (h *Handler) converse(ctx context.Context, userID int64, text string) string {
	ident := strconv.FormatInt(userID, 10)
	if h.limiter != nil {
		ok, err := h.limiter.Allow(ctx, "chat", ident, h.cfg.ChatRateLimit, h.cfg.ChatRateWindow)
		if err != nil {
			logger.WithContext(ctx).Warn("chat rate limiter error, allowing", "error", err)
		}
		if !ok {
			return msgRateLimited
		}
	}
	return h.chat.Reply(ctx, userID, text)
}
