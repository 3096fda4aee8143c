package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telegram_assistant/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reminderColumns = `id, user_id, message, remind_at, is_sent, created_at`

type ReminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *domain.Reminder) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO reminders (user_id, message, remind_at, is_sent)
		 VALUES ($1, $2, $3, FALSE)
		 RETURNING id, created_at`,
		rem.UserID, rem.Message, rem.RemindAt,
	).Scan(&rem.ID, &rem.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	rem.IsSent = false
	return nil
}

// ListDue returns every unsent reminder whose time has come
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders
		 WHERE is_sent = FALSE AND remind_at <= $1
		 ORDER BY remind_at, id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkSent flips is_sent once. It reports whether this call did the flip;
// already sent or unknown ids return false without error.
func (r *ReminderRepository) MarkSent(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE reminders SET is_sent = TRUE WHERE id = $1 AND is_sent = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("mark reminder %d sent: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListActiveByUser returns the user's unsent reminders, soonest first
func (r *ReminderRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Reminder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders
		 WHERE user_id = $1 AND is_sent = FALSE
		 ORDER BY remind_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// DeletePending removes a pending reminder owned by userID and returns it.
// A missing, foreign or already sent reminder yields nil, nil.
func (r *ReminderRepository) DeletePending(ctx context.Context, id, userID int64) (*domain.Reminder, error) {
	var rem domain.Reminder
	err := r.db.QueryRow(ctx,
		`DELETE FROM reminders
		 WHERE id = $1 AND user_id = $2 AND is_sent = FALSE
		 RETURNING `+reminderColumns,
		id, userID,
	).Scan(&rem.ID, &rem.UserID, &rem.Message, &rem.RemindAt, &rem.IsSent, &rem.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return &rem, nil
}

func scanReminders(rows pgx.Rows) ([]*domain.Reminder, error) {
	var result []*domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Message, &rem.RemindAt, &rem.IsSent, &rem.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &rem)
	}
	return result, rows.Err()
}
