package domain

import "time"

// Chat roles, named the way the model API expects them
const (
	RoleUser  = "user"
	RoleModel = "model"
)

type ChatTurn struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
