// Package calendar turns the textual period header and day-number row of a biometric
// export into real dates, and holds the calendar arithmetic shared by later stages.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const rangeSeparator = " to "

// DateRangeParseError is returned when the period header cannot be parsed.
type DateRangeParseError struct {
	Input  string
	Reason string
}

func (e *DateRangeParseError) Error() string {
	return fmt.Sprintf("invalid date range %q: %s", e.Input, e.Reason)
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day inside the period.
func (p Period) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Clip intersects [from, to] with the period. ok is false when they do not overlap.
func (p Period) Clip(from, to time.Time) (time.Time, time.Time, bool) {
	from, to = Day(from), Day(to)
	if from.Before(p.Start) {
		from = p.Start
	}
	if to.After(p.End) {
		to = p.End
	}
	return from, to, !from.After(to)
}

// Days lists every day of the period in order.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	return p.Start.Format(DisplayLayout) + " To " + p.End.Format(DisplayLayout)
}

// months lists the first day of every month the period touches.
func (p Period) months() []time.Time {
	var out []time.Time
	m := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !m.After(p.End) {
		out = append(out, m)
		m = m.AddDate(0, 1, 0)
	}
	return out
}

// ParseRange parses "<MonthName>-<day>-<year> To <MonthName>-<day>-<year>". Years are
// optional. Missing years are attributed by these rules:
//   - only the start year given: the end falls in the same year, or the next one when the
//     end month is earlier than the start month;
//   - only the end year given: mirrored from the end;
//   - neither given: the start falls in referenceYear.
func ParseRange(s string, referenceYear int) (Period, error) {
	raw := strings.TrimSpace(s)
	lower := strings.ToLower(raw)
	i := strings.Index(lower, rangeSeparator)
	if i < 0 {
		return Period{}, &DateRangeParseError{Input: s, Reason: "missing \"To\" separator"}
	}

	start, err := parseEndpoint(raw[:i])
	if err != nil {
		return Period{}, &DateRangeParseError{Input: s, Reason: err.Error()}
	}
	end, err := parseEndpoint(raw[i+len(rangeSeparator):])
	if err != nil {
		return Period{}, &DateRangeParseError{Input: s, Reason: err.Error()}
	}

	wraps := end.month < start.month
	switch {
	case start.year != 0 && end.year != 0:
	case start.year != 0:
		end.year = start.year
		if wraps {
			end.year++
		}
	case end.year != 0:
		start.year = end.year
		if wraps {
			start.year--
		}
	default:
		if referenceYear <= 0 {
			return Period{}, &DateRangeParseError{Input: s, Reason: "no year given and no reference year"}
		}
		start.year = referenceYear
		end.year = referenceYear
		if wraps {
			end.year++
		}
	}

	p := Period{}
	if p.Start, err = start.date(); err != nil {
		return Period{}, &DateRangeParseError{Input: s, Reason: err.Error()}
	}
	if p.End, err = end.date(); err != nil {
		return Period{}, &DateRangeParseError{Input: s, Reason: err.Error()}
	}
	if p.End.Before(p.Start) {
		return Period{}, &DateRangeParseError{Input: s, Reason: "range ends before it starts"}
	}
	return p, nil
}

// ParseRangeAsOf is ParseRange for exports whose header may carry no year. The start is
// placed in the year of now, or the year before when that would start the period after
// now. Headers with a year are unaffected.
func ParseRangeAsOf(s string, now time.Time) (Period, error) {
	p, err := ParseRange(s, now.Year())
	if err != nil || !p.Start.After(Day(now)) {
		return p, err
	}
	if earlier, err := ParseRange(s, now.Year()-1); err == nil {
		return earlier, nil
	}
	return p, nil
}

type endpoint struct {
	month time.Month
	day   int
	year  int
}

func (e endpoint) date() (time.Time, error) {
	t := time.Date(e.year, e.month, e.day, 0, 0, 0, 0, time.UTC)
	if t.Day() != e.day || t.Month() != e.month {
		return time.Time{}, fmt.Errorf("%s %d is not a valid day in %d", e.month, e.day, e.year)
	}
	return t, nil
}

func parseEndpoint(s string) (endpoint, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 || len(parts) > 3 {
		return endpoint{}, fmt.Errorf("endpoint %q is not Month-day[-year]", strings.TrimSpace(s))
	}
	m, ok := ParseMonth(parts[0])
	if !ok {
		return endpoint{}, fmt.Errorf("unknown month %q", strings.TrimSpace(parts[0]))
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || day < 1 || day > 31 {
		return endpoint{}, fmt.Errorf("invalid day %q", strings.TrimSpace(parts[1]))
	}
	e := endpoint{month: m, day: day}
	if len(parts) == 3 {
		y, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || y < 1900 || y > 9999 {
			return endpoint{}, fmt.Errorf("invalid year %q", strings.TrimSpace(parts[2]))
		}
		e.year = y
	}
	return e, nil
}

// ParseMonth accepts full or three-letter English month names in any case.
func ParseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || s == name[:3] {
			return m, true
		}
	}
	return 0, false
}
