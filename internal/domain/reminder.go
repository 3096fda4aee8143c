package domain

import "time"

// Reminder is pending until IsSent flips to true; that flip is final.
type Reminder struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	RemindAt  time.Time `db:"remind_at" json:"remind_at"`
	IsSent    bool      `db:"is_sent" json:"is_sent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsDue reports whether r should be delivered at now.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.IsSent && !r.RemindAt.After(now)
}
