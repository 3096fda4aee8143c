package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Bot updates handled, by command",
		},
		[]string{"command"},
	)
	TransactionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_recorded_total",
			Help: "Transactions stored, by kind",
		},
		[]string{"kind"},
	)
	RemindersScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_scheduled_total",
			Help: "Reminders created",
		},
	)
	RemindersDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_delivered_total",
			Help: "Reminders delivered and marked sent",
		},
	)
	ReminderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_delivery_failures_total",
			Help: "Reminders whose delivery failed and stay pending",
		},
	)
	DeliveryRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_delivery_runs_total",
			Help: "Delivery passes, by outcome (ok, skipped, error)",
		},
		[]string{"outcome"},
	)
	AIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Calls to the generative backend, by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(Commands)
	prometheus.MustRegister(TransactionsRecorded)
	prometheus.MustRegister(RemindersScheduled)
	prometheus.MustRegister(RemindersDelivered)
	prometheus.MustRegister(ReminderFailures)
	prometheus.MustRegister(DeliveryRuns)
	prometheus.MustRegister(AIRequests)
}
