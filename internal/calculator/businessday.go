package calculator

import (
	"time"

	"TickerCast/internal/model"
)

// IsBusinessDay reports whether t falls on Monday through Friday.
// No holiday calendar is applied.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextBusinessDays returns the n business days strictly after last.
func NextBusinessDays(last time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := model.Day(last)
	for len(days) < n {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}
