package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRE  = regexp.MustCompile(`^(\d+)\s*(m|min|menit|h|jam|hour|d|hari|day)$`)
	clockRE     = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)
	tomorrowRE  = regexp.MustCompile(`^besok\s+(\d{1,2})[:.](\d{2})$`)
	unitOfToken = map[string]time.Duration{
		"m": time.Minute, "min": time.Minute, "menit": time.Minute,
		"h": time.Hour, "jam": time.Hour, "hour": time.Hour,
		"d": 24 * time.Hour, "hari": 24 * time.Hour, "day": 24 * time.Hour,
	}
)

// ParseRemindTime resolves a reminder time expression against now.
// Supported forms, tried in order:
//
//	10m, 2 jam, 1d      relative offset from now
//	14:30, 8.05         next occurrence of that wall-clock time in loc (today, else tomorrow)
//	besok 08:00         tomorrow in loc at that time, even if today's has not passed
//
// Hours and minutes are not range checked; out of range values roll over
// through time.Date normalisation. The result is in UTC.
func ParseRemindTime(text string, now time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	in := strings.ToLower(strings.TrimSpace(text))

	if m := relativeRE.FindStringSubmatch(in); m != nil {
		unit := unitOfToken[m[2]]
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n > math.MaxInt64/int64(unit) {
			return time.Time{}, false
		}
		return now.Add(time.Duration(n) * unit).UTC(), true
	}

	if m := clockRE.FindStringSubmatch(in); m != nil {
		target := atClock(now.In(loc), m[1], m[2])
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
		return target.UTC(), true
	}

	if m := tomorrowRE.FindStringSubmatch(in); m != nil {
		return atClock(now.In(loc).AddDate(0, 0, 1), m[1], m[2]).UTC(), true
	}

	return time.Time{}, false
}

// atClock returns day's date at hh:mm:00 in day's location.
func atClock(day time.Time, hh, mm string) time.Time {
	h, _ := strconv.Atoi(hh)
	mi, _ := strconv.Atoi(mm)
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, mi, 0, 0, day.Location())
}
