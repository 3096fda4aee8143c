package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"telegram_assistant/internal/domain"
)

var errStorage = errors.New("storage down")

type memTransactions struct {
	mu     sync.Mutex
	nextID int64
	rows   []*domain.Transaction
	clock  func() time.Time
	err    error
}

func (m *memTransactions) Create(_ context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	tx.ID = m.nextID
	if m.clock != nil {
		tx.CreatedAt = m.clock()
	} else {
		tx.CreatedAt = time.Now()
	}
	cp := *tx
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memTransactions) ListSince(_ context.Context, userID int64, since time.Time) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Transaction
	for _, r := range m.rows {
		if r.UserID == userID && !r.CreatedAt.Before(since) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

type memReminders struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Reminder
	err    error
}

func newMemReminders() *memReminders {
	return &memReminders{rows: make(map[int64]*domain.Reminder)}
}

func (m *memReminders) Create(_ context.Context, rem *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	rem.ID = m.nextID
	rem.CreatedAt = time.Now().UTC()
	rem.IsSent = false
	cp := *rem
	m.rows[rem.ID] = &cp
	return nil
}

func (m *memReminders) sorted(keep func(*domain.Reminder) bool) []*domain.Reminder {
	var out []*domain.Reminder
	for _, r := range m.rows {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].RemindAt.Equal(out[b].RemindAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].RemindAt.Before(out[b].RemindAt)
	})
	return out
}

func (m *memReminders) ListDue(_ context.Context, now time.Time) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(r *domain.Reminder) bool { return r.IsDue(now) }), nil
}

func (m *memReminders) MarkSent(ctx context.Context, id int64) (bool, error) {
	// like a pgx query, a cancelled context fails the call
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	r, ok := m.rows[id]
	if !ok || r.IsSent {
		return false, nil
	}
	r.IsSent = true
	return true, nil
}

func (m *memReminders) ListActiveByUser(_ context.Context, userID int64) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(r *domain.Reminder) bool { return r.UserID == userID && !r.IsSent }), nil
}

func (m *memReminders) DeletePending(_ context.Context, id, userID int64) (*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok || r.UserID != userID || r.IsSent {
		return nil, nil
	}
	delete(m.rows, id)
	return r, nil
}

func (m *memReminders) get(id int64) *domain.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type memChat struct {
	mu     sync.Mutex
	nextID int64
	rows   []*domain.ChatTurn
	err    error
}

func (m *memChat) Append(_ context.Context, turn *domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	turn.ID = m.nextID
	turn.CreatedAt = time.Now()
	cp := *turn
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memChat) Latest(_ context.Context, userID int64, limit int) ([]*domain.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.ChatTurn
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].UserID == userID {
			cp := *m.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeCompleter struct {
	answer  string
	err     error
	block   bool
	history []*domain.ChatTurn
	prompt  string
}

func (f *fakeCompleter) Complete(ctx context.Context, history []*domain.ChatTurn, prompt string) (string, error) {
	f.history = history
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

type fakeNotifier struct {
	mu        sync.Mutex
	delivered []int64
	failFor   map[int64]error
	panicFor  map[int64]bool
	afterSend func()
}

func (f *fakeNotifier) NotifyReminder(_ context.Context, rem *domain.Reminder) error {
	if f.panicFor[rem.ID] {
		panic("boom")
	}
	if err := f.failFor[rem.ID]; err != nil {
		return err
	}
	f.mu.Lock()
	f.delivered = append(f.delivered, rem.ID)
	f.mu.Unlock()
	if f.afterSend != nil {
		f.afterSend()
	}
	return nil
}

type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (f *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(), bool, error) {
	if f.err != nil {
		return func() {}, false, f.err
	}
	if f.held {
		return func() {}, false, nil
	}
	f.held = true
	return func() {
		f.held = false
		f.released++
	}, true, nil
}
