package domain

import "time"

// Transaction kinds
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Kind        string    `db:"type" json:"kind"`
	Amount      int64     `db:"amount" json:"amount"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (t *Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}
