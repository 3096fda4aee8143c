package repository

import (
	"context"
	"fmt"
	"time"

	"telegram_assistant/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts tx and fills in its ID and CreatedAt
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, category, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		tx.UserID, tx.Kind, tx.Amount, tx.Category, nullIfEmpty(tx.Description),
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListSince returns the user's transactions created at or after since, newest first
func (r *TransactionRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, category, COALESCE(description, ''), created_at
		 FROM transactions
		 WHERE user_id = $1 AND created_at >= $2
		 ORDER BY created_at DESC, id DESC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Kind, &tx.Amount, &tx.Category, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
