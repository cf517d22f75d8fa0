// Package holiday decides which days of an attendance period are non-working.
package holiday

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
)

// DefaultAbsentThreshold is the share of employees without a clock-in that marks a
// company-wide closure.
const DefaultAbsentThreshold = 0.9

// Source names a detector that marked a day.
type Source string

const (
	SourceStatistical Source = "statistical"
	SourceCalendar    Source = "calendar"
	SourceManual      Source = "manual"
)

// Statistical returns the dates on which the share of records without a clock-in is at
// least threshold. records holds one record per employee per labelled date.
func Statistical(records []attendance.Record, threshold float64) []time.Time {
	type tally struct {
		date           time.Time
		total, missing int
	}
	byKey := make(map[string]*tally)
	for _, r := range records {
		k := calendar.Key(r.Date)
		t, ok := byKey[k]
		if !ok {
			t = &tally{date: r.Date}
			byKey[k] = t
		}
		t.total++
		if r.ClockIn == nil {
			t.missing++
		}
	}

	var out []time.Time
	for _, t := range byKey {
		if t.total > 0 && float64(t.missing)/float64(t.total) >= threshold {
			out = append(out, t.date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Input gathers everything a holiday set is built from.
type Input struct {
	Period            calendar.Period
	Dates             []time.Time
	Statistical       []time.Time
	ManualHolidays    []time.Time
	ManualWorkingDays []time.Time
}

type entry struct {
	date    time.Time
	sources []Source
}

// Set is the final holiday calendar of one period. Membership is decided on the MM_DD
// key so callers can ask about dates regardless of year attribution.
type Set struct {
	period calendar.Period
	days   map[string]*entry
}

// Build unions the statistical, calendar-rule and in-period manual holidays and then
// removes every manual working day. A manual working day is never a holiday.
func Build(in Input) Set {
	s := Set{period: in.Period, days: make(map[string]*entry)}

	for _, d := range in.Statistical {
		s.add(d, SourceStatistical)
	}
	candidates := append(in.Period.Days(), in.Dates...)
	for _, d := range candidates {
		if calendar.IsRuleHoliday(d) {
			s.add(d, SourceCalendar)
		}
	}
	for _, d := range in.ManualHolidays {
		if in.Period.Contains(d) {
			s.add(d, SourceManual)
		}
	}
	for _, d := range in.ManualWorkingDays {
		delete(s.days, calendar.Key(d))
	}
	return s
}

func (s Set) add(d time.Time, src Source) {
	k := calendar.Key(d)
	e, ok := s.days[k]
	if !ok {
		e = &entry{date: calendar.Day(d)}
		s.days[k] = e
	}
	for _, existing := range e.sources {
		if existing == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// Contains reports whether t's month-day is a holiday.
func (s Set) Contains(t time.Time) bool {
	_, ok := s.days[calendar.Key(t)]
	return ok
}

// IsWorkingDay is a day inside the period that is not a holiday.
func (s Set) IsWorkingDay(t time.Time) bool {
	return s.period.Contains(t) && !s.Contains(t)
}

// Period is the attendance period the set was built for.
func (s Set) Period() calendar.Period {
	return s.period
}

// Len is the number of holidays.
func (s Set) Len() int {
	return len(s.days)
}

// Keys lists the MM_DD keys in date order.
func (s Set) Keys() []string {
	days := s.Days()
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, d.Key)
	}
	return keys
}

// Day is one holiday and the detectors that produced it.
type Day struct {
	Date    time.Time `json:"date"`
	Key     string    `json:"key"`
	Sources []Source  `json:"sources"`
}

// Days lists the holidays in date order.
func (s Set) Days() []Day {
	out := make([]Day, 0, len(s.days))
	for k, e := range s.days {
		out = append(out, Day{Date: e.date, Key: k, Sources: append([]Source(nil), e.sources...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}
