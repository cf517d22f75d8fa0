// Package biometric reads the wide, fixed-stride monthly export of the clock terminals.
package biometric

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

// Layout locates the fields of the export. Row offsets are relative to the first row
// after SkipRows; block offsets repeat every Stride rows.
type Layout struct {
	SkipRows       int
	RangeRow       int
	RangeCol       int
	DayRow         int
	Stride         int
	IdentityOffset int
	InOffset       int
	OutOffset      int
	IDCol          int
	NameCol        int
}

// DefaultLayout is the xlsx export: one caption row, then 13-row employee blocks.
var DefaultLayout = Layout{
	SkipRows:       1,
	RangeRow:       0,
	RangeCol:       0,
	DayRow:         6,
	Stride:         13,
	IdentityOffset: 4,
	InOffset:       7,
	OutOffset:      8,
	IDCol:          0,
	NameCol:        2,
}

// CSVLayout is the CSV export, which carries six preamble lines before the caption row.
var CSVLayout = func() Layout {
	l := DefaultLayout
	l.SkipRows = 7
	return l
}()

// LayoutMismatchError means the sheet is not shaped like a biometric export. Row and
// Col are 1-based positions in the source sheet; zero when not applicable.
type LayoutMismatchError struct {
	Sheet  string
	Row    int
	Col    int
	Reason string
}

func (e *LayoutMismatchError) Error() string {
	var at []string
	if e.Row > 0 {
		at = append(at, fmt.Sprintf("row %d", e.Row))
	}
	if e.Col > 0 {
		at = append(at, fmt.Sprintf("column %d", e.Col))
	}
	if len(at) == 0 {
		return fmt.Sprintf("sheet %q: layout mismatch: %s", e.Sheet, e.Reason)
	}
	return fmt.Sprintf("sheet %q (%s): layout mismatch: %s", e.Sheet, strings.Join(at, ", "), e.Reason)
}

// EmployeeDays is one employee block: identity plus one record per labelled date.
type EmployeeDays struct {
	ID      string              `json:"emp_id"`
	Name    string              `json:"name"`
	Records []attendance.Record `json:"records"`
}

// Cohort is a parsed export.
type Cohort struct {
	Name      string          `json:"name"`
	Period    calendar.Period `json:"period"`
	Dates     []time.Time     `json:"dates"`
	Employees []EmployeeDays  `json:"employees"`
}

// Records flattens every employee's records.
func (c *Cohort) Records() []attendance.Record {
	var out []attendance.Record
	for _, e := range c.Employees {
		out = append(out, e.Records...)
	}
	return out
}

// now is replaced in tests.
var now = time.Now

// Split parses one export sheet. referenceYear is used only when the period header
// carries no year at all; 0 places the period in the latest year it has already started.
func Split(t sheet.Table, layout Layout, referenceYear int) (*Cohort, error) {
	if layout.Stride <= 0 {
		return nil, &LayoutMismatchError{Sheet: t.Name, Reason: "stride must be positive"}
	}
	body := sheet.Table{Name: t.Name}
	if layout.SkipRows < t.Len() {
		body.Rows = t.Rows[layout.SkipRows:]
	}
	sheetRow := func(i int) int { return layout.SkipRows + i + 1 }

	if body.Len() <= layout.DayRow {
		return nil, &LayoutMismatchError{Sheet: t.Name, Row: sheetRow(layout.DayRow),
			Reason: fmt.Sprintf("sheet has %d rows, day-number header expected", t.Len())}
	}

	header := body.Cell(layout.RangeRow, layout.RangeCol)
	var period calendar.Period
	var err error
	if referenceYear > 0 {
		period, err = calendar.ParseRange(header, referenceYear)
	} else {
		period, err = calendar.ParseRangeAsOf(header, now())
	}
	if err != nil {
		return nil, err
	}

	dayHeader := body.Row(layout.DayRow)
	labels := period.Label(dayHeader)
	var cols []int
	seen := make(map[string]int)
	for i, l := range labels {
		if !l.Valid {
			continue
		}
		if !period.Contains(l.Date) {
			return nil, &LayoutMismatchError{Sheet: t.Name, Row: sheetRow(layout.DayRow), Col: i + 1,
				Reason: fmt.Sprintf("day %s falls outside the period %s", l.Date.Format(calendar.DisplayLayout), period)}
		}
		if prev, dup := seen[l.Key()]; dup {
			return nil, &LayoutMismatchError{Sheet: t.Name, Row: sheetRow(layout.DayRow), Col: i + 1,
				Reason: fmt.Sprintf("date %s labelled twice (columns %d and %d)", l.Key(), prev+1, i+1)}
		}
		seen[l.Key()] = i
		cols = append(cols, i)
	}
	if len(cols) == 0 {
		return nil, &LayoutMismatchError{Sheet: t.Name, Row: sheetRow(layout.DayRow),
			Reason: "no day numbers found in the day-number header"}
	}

	c := &Cohort{Name: t.Name, Period: period}
	for _, i := range cols {
		c.Dates = append(c.Dates, labels[i].Date)
	}

	for base := 0; base+layout.IdentityOffset < body.Len(); base += layout.Stride {
		idRow := base + layout.IdentityOffset
		id := body.Cell(idRow, layout.IDCol)
		if id == "" {
			continue
		}
		inRow, outRow := base+layout.InOffset, base+layout.OutOffset
		if inRow >= body.Len() || outRow >= body.Len() {
			return nil, &LayoutMismatchError{Sheet: t.Name, Row: sheetRow(idRow),
				Reason: fmt.Sprintf("employee %s block is truncated, clock rows missing", id)}
		}
		for _, r := range []int{inRow, outRow} {
			for j := len(dayHeader); j < len(body.Rows[r]); j++ {
				if v := body.Cell(r, j); v != "" && v != "0" {
					return nil, &LayoutMismatchError{Sheet: t.Name, Row: sheetRow(r), Col: j + 1,
						Reason: fmt.Sprintf("value %q has no date label", v)}
				}
			}
		}

		emp := EmployeeDays{ID: id, Name: body.Cell(idRow, layout.NameCol)}
		for _, j := range cols {
			emp.Records = append(emp.Records,
				attendance.NewRecord(id, labels[j].Date, body.Cell(inRow, j), body.Cell(outRow, j)))
		}
		c.Employees = append(c.Employees, emp)
	}
	return c, nil
}
