package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"telegram_assistant/internal/category"
	"telegram_assistant/internal/domain"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidKind    = errors.New("invalid transaction kind")
	ErrNoTransactions = errors.New("no transactions this month")
)

const recentLimit = 5

// LedgerService records income/expense entries and builds monthly reports
type LedgerService struct {
	store TransactionStore
	loc   *time.Location
}

func NewLedgerService(store TransactionStore, loc *time.Location) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{store: store, loc: loc}
}

// MonthlySummary holds the month-to-date totals for one user
type MonthlySummary struct {
	Month        time.Time // first instant of the month in the reference zone
	TotalIncome  int64
	TotalExpense int64
	Balance      int64
	Count        int
}

type CategoryTotal struct {
	Category string
	Amount   int64
}

// DetailedReport adds per-category totals and the latest entries
type DetailedReport struct {
	MonthlySummary
	Income  []CategoryTotal // descending by amount
	Expense []CategoryTotal // descending by amount
	Recent  []*domain.Transaction
}

// Record stores a categorised transaction. amount must be positive.
func (s *LedgerService) Record(ctx context.Context, userID int64, kind string, amount int64, description string) (*domain.Transaction, error) {
	if kind != domain.KindIncome && kind != domain.KindExpense {
		return nil, ErrInvalidKind
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	description = strings.TrimSpace(description)
	tx := &domain.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Category:    category.Classify(description),
		Description: description,
	}
	if err := s.store.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// MonthlySummary totals the user's transactions since the start of now's month.
// It returns ErrNoTransactions when there are none.
func (s *LedgerService) MonthlySummary(ctx context.Context, userID int64, now time.Time) (*MonthlySummary, error) {
	month := MonthStart(now, s.loc)
	txs, err := s.store.ListSince(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}
	sum := summarize(txs)
	sum.Month = month
	return &sum, nil
}

// DetailedReport is MonthlySummary plus a per-category breakdown and the
// five most recent transactions, newest first.
func (s *LedgerService) DetailedReport(ctx context.Context, userID int64, now time.Time) (*DetailedReport, error) {
	month := MonthStart(now, s.loc)
	txs, err := s.store.ListSince(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	sortNewestFirst(txs)

	report := &DetailedReport{MonthlySummary: summarize(txs)}
	report.Month = month
	report.Income = totalsByCategory(txs, domain.KindIncome)
	report.Expense = totalsByCategory(txs, domain.KindExpense)

	n := min(recentLimit, len(txs))
	report.Recent = txs[:n]
	return report, nil
}

// MonthStart returns midnight of the first day of now's month in loc
func MonthStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

func summarize(txs []*domain.Transaction) MonthlySummary {
	var sum MonthlySummary
	for _, t := range txs {
		if t.IsExpense() {
			sum.TotalExpense += t.Amount
		} else {
			sum.TotalIncome += t.Amount
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	sum.Count = len(txs)
	return sum
}

// totalsByCategory groups one kind by category, largest first. Equal totals
// keep the order in which the category was first seen.
func totalsByCategory(txs []*domain.Transaction, kind string) []CategoryTotal {
	var totals []CategoryTotal
	index := make(map[string]int)
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(totals)
			index[t.Category] = i
			totals = append(totals, CategoryTotal{Category: t.Category})
		}
		totals[i].Amount += t.Amount
	}
	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Amount > totals[b].Amount
	})
	return totals
}

func sortNewestFirst(txs []*domain.Transaction) {
	sort.SliceStable(txs, func(a, b int) bool {
		if txs[a].CreatedAt.Equal(txs[b].CreatedAt) {
			return txs[a].ID > txs[b].ID
		}
		return txs[a].CreatedAt.After(txs[b].CreatedAt)
	})
}
