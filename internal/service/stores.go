package service

import (
	"context"
	"time"

	"telegram_assistant/internal/domain"
)

// The repository package satisfies these with its pgx-backed types.

type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	ListSince(ctx context.Context, userID int64, since time.Time) ([]*domain.Transaction, error)
}

type ReminderStore interface {
	Create(ctx context.Context, rem *domain.Reminder) error
	ListDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error)
	MarkSent(ctx context.Context, id int64) (bool, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Reminder, error)
	DeletePending(ctx context.Context, id, userID int64) (*domain.Reminder, error)
}

type ChatStore interface {
	Append(ctx context.Context, turn *domain.ChatTurn) error
	Latest(ctx context.Context, userID int64, limit int) ([]*domain.ChatTurn, error)
}
