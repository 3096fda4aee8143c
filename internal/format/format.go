// Package format renders amounts and instants the way Indonesian users
// read them: "Rp 1.500.000", "20 Oktober 2026 08.00".
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var shortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// Rupiah formats a whole-rupiah amount with dot grouping and no decimals.
// Negative amounts get a leading minus: "-Rp 950.000".
func Rupiah(amount int64) string {
	if amount < 0 {
		// -amount overflows for MinInt64, so group the unsigned value
		return "-Rp " + printer.Sprintf("%d", uint64(-(amount+1))+1)
	}
	return "Rp " + printer.Sprintf("%d", amount)
}

// MonthYear gives "Oktober 2026"
func MonthYear(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}

// DateTime gives "20 Oktober 2026 08.00"
func DateTime(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return fmt.Sprintf("%d %s %d %02d.%02d", t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// ShortDateTime gives "20 Okt 08.00"
func ShortDateTime(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return fmt.Sprintf("%d %s %02d.%02d", t.Day(), shortMonths[t.Month()-1], t.Hour(), t.Minute())
}

// ShortDate gives "20 Okt"
func ShortDate(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}

// Zone is the abbreviation users see after a time, e.g. WIB
func Zone(t time.Time, loc *time.Location) string {
	name, _ := in(t, loc).Zone()
	return name
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
