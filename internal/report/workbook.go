package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

const (
	leaveSheet    = "Leave"
	holidaysSheet = "Holidays"
	maxSheetName  = 31
)

var reportHeader = []interface{}{
	"Emp Id", "Name", "Designation", "Department", "Working Days", "Present", "Absent",
	"Half Days", "Full Days", "Late", "Observed Leaves", "Approved Leaves", "Unauthorized Leaves",
}

var bioHeader = []interface{}{
	"Emp Id", "Name", "Designation", "Working Days", "Present", "Absent", "Late",
	"Half Days", "Full Days", "Half Day Dates", "Full Day Dates", "Late Dates", "Early Dates",
}

var exemptedHeader = []interface{}{
	"Emp Id", "Name", "Late", "Exempted Late", "Half Days", "Exempted Half Days", "Full Days", "Exempted Full Days",
}

var leaveHeader = []interface{}{
	"Cohort", "Emp Id", "Name", "Leave Type", "Days", "Total WD Leaves", "Casual Leave", "Approved Leaves",
}

var holidaysHeader = []interface{}{"Cohort", "Date", "Detected By"}

// SheetName returns the report sheet name of a cohort.
func SheetName(cohort, suffix string) string {
	name := strings.TrimSpace(cohort + " " + suffix)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// WriteWorkbook renders the reports as an xlsx workbook: Report, Bio, Exempted and
// Punches sheets per cohort, then one Leave and one Holidays sheet covering every cohort.
func WriteWorkbook(reports []CohortReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	w := &workbookWriter{f: f}

	bold, err := f.NewStyle(`{"font":{"bold":true}}`)
	if err != nil {
		return nil, fmt.Errorf("unable to create header style: %w", err)
	}
	w.header = bold

	first := true
	for _, r := range reports {
		reportName := SheetName(r.Cohort, "Report")
		if first {
			f.SetSheetName("Sheet1", reportName)
			first = false
		} else {
			f.NewSheet(reportName)
		}
		w.writeReport(reportName, r.Rows)

		bioName := SheetName(r.Cohort, "Bio")
		f.NewSheet(bioName)
		w.writeBio(bioName, r)

		if len(r.Exempted) > 0 {
			exemptedName := SheetName(r.Cohort, "Exempted")
			f.NewSheet(exemptedName)
			w.writeExempted(exemptedName, r.Exempted)
		}

		if r.Punches.Len() > 0 {
			punchesName := SheetName(r.Cohort, "Punches")
			f.NewSheet(punchesName)
			w.writeTable(punchesName, r.Punches)
		}
	}
	if first {
		f.SetSheetName("Sheet1", leaveSheet)
	} else {
		f.NewSheet(leaveSheet)
	}
	w.writeLeaves(reports)

	f.NewSheet(holidaysSheet)
	w.writeHolidays(reports)

	if w.err != nil {
		return nil, w.err
	}
	f.SetActiveSheet(0)
	return f.WriteToBuffer()
}

// workbookWriter remembers the first error so sheets can be written without checking
// every cell.
type workbookWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *workbookWriter) row(sheet string, n int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("unable to write row %d of sheet %s: %w", n, sheet, err)
	}
}

func (w *workbookWriter) headerRow(sheet string, values []interface{}) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		w.err = fmt.Errorf("unable to set header style of sheet %s: %w", sheet, err)
		return
	}
	_ = w.f.SetColWidth(sheet, "A", "D", 20)
}

func (w *workbookWriter) writeReport(sheet string, rows []Row) {
	w.headerRow(sheet, reportHeader)
	for i, r := range rows {
		w.row(sheet, i+2, []interface{}{
			r.EmployeeID, r.Name, r.Designation, r.Department, r.WorkingDays, r.Present, r.Absent,
			r.HalfDays, r.FullDays, r.Late, r.ObservedLeaves, r.ApprovedLeaves, r.UnauthorizedLeaves,
		})
	}
}

func (w *workbookWriter) writeBio(sheet string, r CohortReport) {
	w.headerRow(sheet, bioHeader)
	for i, s := range r.Summaries {
		w.row(sheet, i+2, []interface{}{
			s.EmployeeID, s.Name, s.Designation, s.WorkingDays, s.Present, s.Absent, s.LateCount,
			s.HalfDays, s.FullDays,
			joinDates(s.HalfDayDates()), joinDates(s.FullAbsentDates),
			joinDates(s.LateDates), joinDates(s.EarlyDates),
		})
	}
}

func (w *workbookWriter) writeExempted(sheet string, rows []Exempted) {
	w.headerRow(sheet, exemptedHeader)
	for i, e := range rows {
		w.row(sheet, i+2, []interface{}{
			e.EmployeeID, e.Name, e.Late, e.ExemptLate, e.HalfDays, e.ExemptHalfDays, e.FullDays, e.ExemptFullDays,
		})
	}
}

func (w *workbookWriter) writeTable(name string, t sheet.Table) {
	for i, r := range t.Rows {
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = v
		}
		if i == 0 {
			w.headerRow(name, values)
			continue
		}
		w.row(name, i+1, values)
	}
}

func (w *workbookWriter) writeLeaves(reports []CohortReport) {
	w.headerRow(leaveSheet, leaveHeader)
	n := 2
	for _, r := range reports {
		for _, l := range r.Leaves {
			for _, leaveType := range sortedKeys(l.PerType) {
				w.row(leaveSheet, n, []interface{}{
					r.Cohort, l.EmployeeID, l.Name, leaveType, l.PerType[leaveType],
					l.TotalWorkingDayLeaves, l.CasualLeaves, l.Approved,
				})
				n++
			}
		}
	}
}

func (w *workbookWriter) writeHolidays(reports []CohortReport) {
	w.headerRow(holidaysSheet, holidaysHeader)
	n := 2
	for _, r := range reports {
		for _, d := range r.Holidays.Days() {
			sources := make([]string, 0, len(d.Sources))
			for _, s := range d.Sources {
				sources = append(sources, string(s))
			}
			w.row(holidaysSheet, n, []interface{}{
				r.Cohort, d.Date.Format(calendar.DisplayLayout), strings.Join(sources, ", "),
			})
			n++
		}
	}
}

func joinDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format(calendar.DisplayLayout))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
