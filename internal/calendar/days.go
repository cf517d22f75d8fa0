package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is how dates are written back into reports.
const DisplayLayout = "02-Jan-2006"

var dayListLayouts = []string{"02-Jan-2006", "2-Jan-2006", "02-January-2006", "2-January-2006", "02-01-2006", "2-1-2006"}

// Key is the month-day form every stage uses to compare dates, e.g. "12_27".
func Key(t time.Time) string {
	return fmt.Sprintf("%02d_%02d", int(t.Month()), t.Day())
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsRuleHoliday is the standing calendar: every Sunday plus the first and third
// Saturday of the month (days 1-7 and 15-21).
func IsRuleHoliday(t time.Time) bool {
	switch t.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		d := t.Day()
		return (d >= 1 && d <= 7) || (d >= 15 && d <= 21)
	}
	return false
}

// ParseDay parses a single dd-mmm-yyyy style date.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayListLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected dd-mmm-yyyy", s)
}

// ParseDayList parses a comma-separated list of dd-mmm-yyyy dates. Bad entries are
// skipped and reported.
func ParseDayList(s string) ([]time.Time, []error) {
	var days []time.Time
	var errs []error
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseDay(part)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		days = append(days, d)
	}
	return days, errs
}
