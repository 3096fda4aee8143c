package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"telegram_assistant/internal/ai"
	"telegram_assistant/internal/domain"
	"telegram_assistant/internal/logger"
	"telegram_assistant/internal/metrics"
)

const (
	DefaultHistoryLimit = 10
	defaultAITimeout    = 30 * time.Second

	// Apology is what the user sees whenever the AI backend cannot answer
	Apology = "sorry, AI-nya lagi error nih, coba lagi ntar ya"
)

// Completer produces the assistant's next message given the prior turns
// (oldest first) and the new user prompt.
type Completer interface {
	Complete(ctx context.Context, history []*domain.ChatTurn, prompt string) (string, error)
}

type ChatService struct {
	store     ChatStore
	completer Completer
	limit     int
	timeout   time.Duration
}

// NewChatService builds the conversation service. completer may be nil when
// no AI key is configured; Reply then always apologises.
func NewChatService(store ChatStore, completer Completer, limit int, timeout time.Duration) *ChatService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &ChatService{store: store, completer: completer, limit: limit, timeout: timeout}
}

func (s *ChatService) AppendTurn(ctx context.Context, userID int64, role, content string) error {
	return s.store.Append(ctx, &domain.ChatTurn{UserID: userID, Role: role, Content: content})
}

// RecentTurns returns the newest limit turns of the user in chronological order
func (s *ChatService) RecentTurns(ctx context.Context, userID int64, limit int) ([]*domain.ChatTurn, error) {
	if limit <= 0 {
		limit = s.limit
	}
	turns, err := s.store.Latest(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Reply asks the AI backend to answer text in the context of the user's
// recent history. Both turns are stored only when the backend answers.
func (s *ChatService) Reply(ctx context.Context, userID int64, text string) string {
	log := logger.WithContext(ctx).With("component", "chat", "user_id", userID)

	if s.completer == nil {
		metrics.AIRequests.WithLabelValues("disabled").Inc()
		log.Warn("AI backend not configured")
		return Apology
	}

	history, err := s.RecentTurns(ctx, userID, s.limit)
	if err != nil {
		log.Warn("failed to load chat history, continuing without it", "error", err)
		history = nil
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.completer.Complete(cctx, history, text)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		outcome := failureOutcome(err)
		metrics.AIRequests.WithLabelValues(outcome).Inc()
		log.Error("AI completion failed", "outcome", outcome, "error", err)
		return Apology
	}
	metrics.AIRequests.WithLabelValues("ok").Inc()

	if err := s.AppendTurn(ctx, userID, domain.RoleUser, text); err != nil {
		log.Error("failed to save user turn", "error", err)
	}
	if err := s.AppendTurn(ctx, userID, domain.RoleModel, answer); err != nil {
		log.Error("failed to save model turn", "error", err)
	}
	return answer
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ai.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ai.ErrInvalidAPIKey):
		return "api_key"
	case errors.Is(err, ai.ErrEmptyResponse):
		return "empty"
	default:
		return "error"
	}
}
