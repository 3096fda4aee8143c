package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telegram_assistant/internal/domain"
	"telegram_assistant/internal/logger"
	"telegram_assistant/internal/metrics"

	"github.com/google/uuid"
)

const (
	deliveryLockKey = "lock:reminder-delivery"
	deliveryLockTTL = 2 * time.Minute
	markSentTimeout = 10 * time.Second
)

// Notifier delivers a due reminder to its owner
type Notifier interface {
	NotifyReminder(ctx context.Context, rem *domain.Reminder) error
}

// Locker guards a delivery pass against overlapping triggers
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// DeliveryResult summarises one delivery pass
type DeliveryResult struct {
	RunID     string    `json:"run_id"`
	Checked   int       `json:"checked"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	Skipped   bool      `json:"skipped,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type DeliveryService struct {
	reminders *ReminderService
	notifier  Notifier
	locker    Locker
	now       func() time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDeliveryService wires the delivery pass. locker may be nil.
func NewDeliveryService(reminders *ReminderService, notifier Notifier, locker Locker) *DeliveryService {
	return &DeliveryService{
		reminders: reminders,
		notifier:  notifier,
		locker:    locker,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Run delivers every due reminder once. A failure on one reminder is logged
// and counted and leaves it pending; the pass carries on with the rest.
// Only a failure to load the due set is returned as an error.
func (s *DeliveryService) Run(ctx context.Context) (*DeliveryResult, error) {
	runID := uuid.NewString()
	ctx = logger.NewContext(ctx, "run_id", runID)
	log := logger.WithContext(ctx).With("component", "delivery")

	result := &DeliveryResult{RunID: runID}

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, deliveryLockKey, deliveryLockTTL)
		switch {
		case err != nil:
			log.Warn("delivery lock unavailable, running unlocked", "error", err)
		case !ok:
			result.Skipped = true
			result.Timestamp = s.now().UTC()
			metrics.DeliveryRuns.WithLabelValues("skipped").Inc()
			log.Info("another delivery pass is running, skipping")
			return result, nil
		default:
			defer release()
		}
	}

	now := s.now().UTC()
	result.Timestamp = now

	due, err := s.reminders.DueReminders(ctx, now)
	if err != nil {
		metrics.DeliveryRuns.WithLabelValues("error").Inc()
		log.Error("failed to load due reminders", "error", err)
		return nil, fmt.Errorf("load due reminders: %w", err)
	}
	result.Checked = len(due)

	for _, rem := range due {
		if !rem.IsDue(now) {
			// row changed between the query and here
			log.Debug("skipping reminder that is no longer due", "reminder_id", rem.ID)
			continue
		}
		if err := s.deliver(ctx, rem); err != nil {
			result.Failed++
			metrics.ReminderFailures.Inc()
			log.Error("reminder delivery failed", "reminder_id", rem.ID, "user_id", rem.UserID, "error", err)
			continue
		}
		result.Sent++
		metrics.RemindersDelivered.Inc()
	}

	metrics.DeliveryRuns.WithLabelValues("ok").Inc()
	log.Info("delivery pass finished", "checked", result.Checked, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// deliver notifies and marks one reminder, turning a panic into an error
func (s *DeliveryService) deliver(ctx context.Context, rem *domain.Reminder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic delivering reminder: %v", r)
		}
	}()

	if err := s.notifier.NotifyReminder(ctx, rem); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	// the message is out; record that even if the caller has gone away
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markSentTimeout)
	defer cancel()
	if err := s.reminders.MarkSent(markCtx, rem.ID); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

// Start runs a delivery pass every interval until ctx is done or Stop is called
func (s *DeliveryService) Start(ctx context.Context, interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("reminder poller started", "interval", interval.String())

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				// errors are already logged inside Run
				_, _ = s.Run(ctx)
			}
		}
	}()
}

// Stop halts the poller started by Start and waits for the current pass
func (s *DeliveryService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
