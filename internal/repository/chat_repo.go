package repository

import (
	"context"
	"fmt"

	"telegram_assistant/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Append(ctx context.Context, turn *domain.ChatTurn) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO chat_history (user_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		turn.UserID, turn.Role, turn.Content,
	).Scan(&turn.ID, &turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	return nil
}

// Latest returns up to limit of the user's most recent turns, newest first
func (r *ChatRepository) Latest(ctx context.Context, userID int64, limit int) ([]*domain.ChatTurn, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM chat_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var result []*domain.ChatTurn
	for rows.Next() {
		var t domain.ChatTurn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}
