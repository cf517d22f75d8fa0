package attendance

import (
	"sort"
	"time"

	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
)

// Absence weights in day-equivalents.
const (
	fullDayWeight = 1.0
	halfDayWeight = 0.5
)

// HolidayChecker answers whether a date is a non-working day.
type HolidayChecker interface {
	Contains(t time.Time) bool
}

// Employee is the identity an aggregation needs.
type Employee struct {
	ID          string
	Name        string
	Designation string
}

// Summary is one employee's month.
type Summary struct {
	EmployeeID           string      `json:"emp_id"`
	Name                 string      `json:"name"`
	Designation          string      `json:"designation,omitempty"`
	WorkingDays          float64     `json:"working_days"`
	Present              float64     `json:"present"`
	Absent               float64     `json:"absent"`
	LateCount            int         `json:"late_count"`
	HalfDays             int         `json:"half_days"`
	FullDays             int         `json:"full_days"`
	MorningAbsentDates   []time.Time `json:"am_absent_dates"`
	AfternoonAbsentDates []time.Time `json:"pm_absent_dates"`
	FullAbsentDates      []time.Time `json:"full_absent_dates"`
	LateDates            []time.Time `json:"late_dates"`
	EarlyDates           []time.Time `json:"early_dates"`
}

// HalfDayDates merges the morning and afternoon absences in date order.
func (s Summary) HalfDayDates() []time.Time {
	out := append(append([]time.Time{}, s.MorningAbsentDates...), s.AfternoonAbsentDates...)
	sortDates(out)
	return out
}

// WorkingDays is the staff-calendar variant: every labelled date that is not a holiday.
func WorkingDays(dates []time.Time, holidays HolidayChecker) int {
	n := 0
	for _, d := range dates {
		if !holidays.Contains(d) {
			n++
		}
	}
	return n
}

// Aggregate classifies every non-holiday record of one employee and folds the flags into
// a summary. A day absent in both halves is counted once as a full day and removed from
// both half-day sets.
func (c *Classifier) Aggregate(emp Employee, records []Record, holidays HolidayChecker, workingDays float64) Summary {
	am := make(map[string]time.Time)
	pm := make(map[string]time.Time)
	var late, early []time.Time

	for _, rec := range records {
		status := c.ClassifyDay(rec, emp.Designation, holidays)
		if status.Has(Holiday) {
			continue
		}
		key := calendar.Key(rec.Date)
		if status.Has(MorningAbsent) {
			am[key] = rec.Date
		}
		if status.Has(AfternoonAbsent) {
			pm[key] = rec.Date
		}
		if status.Has(Late) {
			late = append(late, rec.Date)
		}
		if status.Has(EarlyLeave) {
			early = append(early, rec.Date)
		}
	}

	var full []time.Time
	for key, d := range am {
		if _, ok := pm[key]; ok {
			full = append(full, d)
			delete(am, key)
			delete(pm, key)
		}
	}

	s := Summary{
		EmployeeID:           emp.ID,
		Name:                 emp.Name,
		Designation:          emp.Designation,
		WorkingDays:          workingDays,
		MorningAbsentDates:   values(am),
		AfternoonAbsentDates: values(pm),
		FullAbsentDates:      full,
		LateDates:            late,
		EarlyDates:           early,
	}
	sortDates(s.FullAbsentDates)
	sortDates(s.LateDates)
	sortDates(s.EarlyDates)

	s.FullDays = len(s.FullAbsentDates)
	s.HalfDays = len(s.MorningAbsentDates) + len(s.AfternoonAbsentDates)
	s.LateCount = len(s.LateDates)
	s.Absent = fullDayWeight*float64(s.FullDays) + halfDayWeight*float64(s.HalfDays)
	s.Present = workingDays - s.Absent
	return s
}

func values(m map[string]time.Time) []time.Time {
	out := make([]time.Time, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sortDates(out)
	return out
}

func sortDates(d []time.Time) {
	sort.Slice(d, func(i, j int) bool { return d[i].Before(d[j]) })
}
