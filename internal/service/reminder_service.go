package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"telegram_assistant/internal/domain"
	"telegram_assistant/internal/logger"
)

var ErrEmptyMessage = errors.New("reminder message is empty")

type ReminderService struct {
	store ReminderStore
}

func NewReminderService(store ReminderStore) *ReminderService {
	return &ReminderService{store: store}
}

// Schedule creates a pending reminder. remindAt is stored in UTC.
func (s *ReminderService) Schedule(ctx context.Context, userID int64, message string, remindAt time.Time) (*domain.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	rem := &domain.Reminder{
		UserID:   userID,
		Message:  message,
		RemindAt: remindAt.UTC(),
	}
	if err := s.store.Create(ctx, rem); err != nil {
		return nil, err
	}
	return rem, nil
}

// DueReminders returns all pending reminders with RemindAt <= now
func (s *ReminderService) DueReminders(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	return s.store.ListDue(ctx, now.UTC())
}

// MarkSent moves a reminder to the sent state. Already sent or unknown ids
// are not an error; only storage failures are returned.
func (s *ReminderService) MarkSent(ctx context.Context, id int64) error {
	flipped, err := s.store.MarkSent(ctx, id)
	if err != nil {
		return err
	}
	if !flipped {
		logger.WithContext(ctx).Debug("reminder already sent or missing", "reminder_id", id)
	}
	return nil
}

// ListActive returns the user's pending reminders, soonest first
func (s *ReminderService) ListActive(ctx context.Context, userID int64) ([]*domain.Reminder, error) {
	return s.store.ListActiveByUser(ctx, userID)
}

// Delete removes one of the user's pending reminders and returns it.
// nil, nil means there was nothing the user may delete under that id.
func (s *ReminderService) Delete(ctx context.Context, id, userID int64) (*domain.Reminder, error) {
	return s.store.DeletePending(ctx, id, userID)
}
