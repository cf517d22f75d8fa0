// Package attendance classifies employee-days from clock punches and aggregates them
// into monthly summaries.
package attendance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day in seconds since midnight.
type Clock int

// At builds a Clock from hours, minutes and seconds.
func At(h, m, s int) Clock {
	return Clock(h*3600 + m*60 + s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)/60%60, int(c)%60)
}

// MarshalText keeps clocks readable in JSON output.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseClock reads a punch cell. "0", blanks and anything unparseable mean no punch.
// Accepted shapes are HH:MM:SS, HH:MM and Excel day fractions such as 0.354166.
func ParseClock(raw string) (Clock, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" || strings.EqualFold(raw, "nan") {
		return 0, false
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return At(t.Hour(), t.Minute(), t.Second()), true
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 && f < 1 {
		return Clock(math.Round(f * 86400)), true
	}
	return 0, false
}

// MustClock parses an HH:MM:SS literal and panics on failure. Meant for thresholds.
func MustClock(s string) Clock {
	c, ok := ParseClock(s)
	if !ok {
		panic(fmt.Sprintf("attendance: invalid clock literal %q", s))
	}
	return c
}

// Record is one employee's punches for one calendar day.
type Record struct {
	EmployeeID string    `json:"emp_id"`
	Date       time.Time `json:"date"`
	ClockIn    *Clock    `json:"clock_in,omitempty"`
	ClockOut   *Clock    `json:"clock_out,omitempty"`
}

// NewRecord parses the raw in/out cells of one day.
func NewRecord(empID string, date time.Time, in, out string) Record {
	r := Record{EmployeeID: empID, Date: date}
	if c, ok := ParseClock(in); ok {
		r.ClockIn = &c
	}
	if c, ok := ParseClock(out); ok {
		r.ClockOut = &c
	}
	return r
}
