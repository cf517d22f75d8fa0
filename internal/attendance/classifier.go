package attendance

import (
	"strings"
)

// DayStatus is the set of flags raised for one employee-day. The zero value is a full
// present day.
type DayStatus uint8

const (
	MorningAbsent DayStatus = 1 << iota
	AfternoonAbsent
	Late
	EarlyLeave
	Holiday
)

// FullDayAbsent is both halves missing.
const FullDayAbsent = MorningAbsent | AfternoonAbsent

// Has reports whether all flags in f are set.
func (s DayStatus) Has(f DayStatus) bool {
	return s&f == f
}

// FullPresent is a working day without any flag.
func (s DayStatus) FullPresent() bool {
	return s == 0
}

// HalfDay is exactly one half missing.
func (s DayStatus) HalfDay() bool {
	return s.Has(MorningAbsent) != s.Has(AfternoonAbsent)
}

func (s DayStatus) String() string {
	if s.FullPresent() {
		return "FullPresent"
	}
	var parts []string
	switch {
	case s.Has(Holiday):
		parts = append(parts, "Holiday")
	case s.Has(FullDayAbsent):
		parts = append(parts, "FullDayAbsent")
	case s.Has(MorningAbsent):
		parts = append(parts, "HalfDayMorningAbsent")
	case s.Has(AfternoonAbsent):
		parts = append(parts, "HalfDayAfternoonAbsent")
	}
	if s.Has(Late) {
		parts = append(parts, "Late")
	}
	if s.Has(EarlyLeave) {
		parts = append(parts, "EarlyLeave")
	}
	return strings.Join(parts, "|")
}

// Thresholds are the punch cut-offs. Late and MorningAbsent are exclusive upper bounds on
// clock-in; AfternoonStart/AfternoonEnd is a half-open window on clock-out and EarlyLeave
// is an exclusive lower bound on clock-out.
type Thresholds struct {
	Late           Clock
	AllowlistLate  Clock
	MorningAbsent  Clock
	AfternoonStart Clock
	AfternoonEnd   Clock
	EarlyLeave     Clock
}

// DefaultThresholds are the institution's standing office hours.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Late:           At(8, 45, 0),
		AllowlistLate:  At(9, 25, 0),
		MorningAbsent:  At(10, 30, 0),
		AfternoonStart: At(12, 15, 0),
		AfternoonEnd:   At(15, 30, 0),
		EarlyLeave:     At(15, 45, 0),
	}
}

const driverDesignation = "driver"

// Classifier applies the thresholds to employee-days.
type Classifier struct {
	Thresholds    Thresholds
	LateAllowlist map[string]struct{}
}

// NewClassifier builds a classifier with the given employee ids allowed the later
// arrival cut-off.
func NewClassifier(t Thresholds, lateAllowed []string) *Classifier {
	allow := make(map[string]struct{}, len(lateAllowed))
	for _, id := range lateAllowed {
		if id = strings.TrimSpace(id); id != "" {
			allow[id] = struct{}{}
		}
	}
	return &Classifier{Thresholds: t, LateAllowlist: allow}
}

// IsDriver reports whether a designation gets the single-punch exemption.
func IsDriver(designation string) bool {
	return strings.Contains(strings.ToLower(designation), driverDesignation)
}

func (c *Classifier) lateCutoff(empID string) Clock {
	if _, ok := c.LateAllowlist[empID]; ok {
		return c.Thresholds.AllowlistLate
	}
	return c.Thresholds.Late
}

// ClassifyDay is Classify for a day that may be a holiday. Holidays carry only the
// Holiday flag; punches on them are not judged.
func (c *Classifier) ClassifyDay(rec Record, designation string, holidays HolidayChecker) DayStatus {
	if holidays != nil && holidays.Contains(rec.Date) {
		return Holiday
	}
	return c.Classify(rec, designation)
}

// Classify returns the flags for one working day.
func (c *Classifier) Classify(rec Record, designation string) DayStatus {
	var s DayStatus
	in, out := rec.ClockIn, rec.ClockOut

	if in != nil && *in > c.lateCutoff(rec.EmployeeID) {
		s |= Late
	}

	if IsDriver(designation) {
		if in == nil && out == nil {
			s |= FullDayAbsent
		}
		return s
	}

	switch {
	case in == nil && out == nil:
		s |= FullDayAbsent
	case in == nil:
		s |= MorningAbsent
	case out == nil:
		s |= AfternoonAbsent
	default:
		t := c.Thresholds
		if *in > t.MorningAbsent {
			s |= MorningAbsent
		}
		if *out >= t.AfternoonStart && *out < t.AfternoonEnd {
			s |= AfternoonAbsent
		}
		if *out < t.EarlyLeave {
			s |= EarlyLeave
		}
	}
	return s
}
