package domain

import (
	"testing"
	"time"
)

func TestReminderIsDue(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		r    Reminder
		want bool
	}{
		{"past and pending", Reminder{RemindAt: now.Add(-time.Minute)}, true},
		{"exactly now", Reminder{RemindAt: now}, true},
		{"future", Reminder{RemindAt: now.Add(time.Second)}, false},
		{"past but sent", Reminder{RemindAt: now.Add(-time.Hour), IsSent: true}, false},
	}
	for _, tc := range cases {
		if got := tc.r.IsDue(now); got != tc.want {
			t.Fatalf("%s: IsDue = %v; want %v", tc.name, got, tc.want)
		}
	}
}
