// Package leave reads the HR leave-request ledger and turns approved requests into
// working-day leave totals per employee.
package leave

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gcu-hr/attendance-reconciler/internal/model"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

const (
	colEmpID     = "Emp Id"
	colName      = "Name"
	colLeaveType = "Leave Type"
	colFromDate  = "From Date"
	colToDate    = "To Date"
	colStatus    = "Status"
	colTotalDays = "Total Days"
)

var ledgerColumns = []sheet.Column{
	{Key: colEmpID, Aliases: []string{"Employee ID", "Emp ID", "EmpId", "Employee Id"}, Required: true},
	{Key: colName, Aliases: []string{"Names", "Employee Name"}},
	{Key: colLeaveType, Aliases: []string{"Type"}, Required: true},
	{Key: colFromDate, Aliases: []string{"From"}, Required: true},
	{Key: colToDate, Aliases: []string{"To"}, Required: true},
	{Key: colStatus},
	{Key: colTotalDays, Aliases: []string{"Days", "No of Days"}, Required: true},
}

var dateLayouts = []string{
	"2006-01-02", "2006-1-2",
	"02-01-2006", "2-1-2006",
	"01-02-2006", "1-2-2006",
}

// Request is one ledger row.
type Request struct {
	Row          int       `json:"row"`
	EmployeeID   string    `json:"emp_id"`
	Name         string    `json:"name"`
	Type         string    `json:"leave_type"`
	Status       string    `json:"status"`
	From         time.Time `json:"from_date"`
	To           time.Time `json:"to_date"`
	DatesValid   bool      `json:"dates_valid"`
	DeclaredDays float64   `json:"total_days"`
}

// Approved reports whether the request takes part in reconciliation. A ledger without
// a status column counts every row as approved.
func (r Request) Approved() bool {
	return r.Status == "" || strings.EqualFold(strings.TrimSpace(r.Status), statusApproved)
}

// AmbiguousDateError describes a ledger date that matched none of the known formats.
type AmbiguousDateError struct {
	Row    int
	Column string
	Value  string
}

func (e *AmbiguousDateError) Error() string {
	return fmt.Sprintf("row %d: %s %q matches no known date format", e.Row, e.Column, e.Value)
}

// ParseLedger reads the ledger export. Rows with unparseable or inverted dates are kept
// with DatesValid == false and reported as warnings.
func ParseLedger(t sheet.Table) ([]Request, []model.Warning, error) {
	h, err := sheet.Resolve(t, 0, ledgerColumns)
	if err != nil {
		return nil, nil, err
	}

	var requests []Request
	var warnings []model.Warning
	for i := 1; i < t.Len(); i++ {
		row := t.Row(i)
		id := h.Value(row, colEmpID)
		if id == "" {
			continue
		}
		req := Request{
			Row:        i + 1,
			EmployeeID: id,
			Name:       h.Value(row, colName),
			Type:       h.Value(row, colLeaveType),
			Status:     h.Value(row, colStatus),
			DatesValid: true,
		}
		if h.Has(colStatus) && req.Status == "" {
			req.Status = "unknown"
		}

		var derr error
		if req.From, derr = ParseDate(h.Value(row, colFromDate)); derr != nil {
			req.DatesValid = false
			warnings = append(warnings, dateWarning(req, &AmbiguousDateError{Row: req.Row, Column: colFromDate, Value: h.Value(row, colFromDate)}))
		}
		if req.To, derr = ParseDate(h.Value(row, colToDate)); derr != nil {
			req.DatesValid = false
			warnings = append(warnings, dateWarning(req, &AmbiguousDateError{Row: req.Row, Column: colToDate, Value: h.Value(row, colToDate)}))
		}
		if req.DatesValid && req.To.Before(req.From) {
			req.DatesValid = false
			warnings = append(warnings, model.Warning{
				Kind:       model.WarnInvalidRange,
				EmployeeID: id,
				Message: fmt.Sprintf("leave ledger row %d: to date %s is before from date %s, row excluded",
					req.Row, req.To.Format("2006-01-02"), req.From.Format("2006-01-02")),
			})
		}
		if !req.DatesValid {
			req.From, req.To = time.Time{}, time.Time{}
		}

		days, derr := parseDays(h.Value(row, colTotalDays))
		if derr != nil {
			warnings = append(warnings, model.Warning{
				Kind:       model.WarnInvalidDays,
				EmployeeID: id,
				Message:    fmt.Sprintf("leave ledger row %d: %v, counted as 0", req.Row, derr),
			})
		}
		req.DeclaredDays = days
		requests = append(requests, req)
	}
	return requests, warnings, nil
}

func dateWarning(req Request, err error) model.Warning {
	return model.Warning{
		Kind:       model.WarnAmbiguousDate,
		EmployeeID: req.EmployeeID,
		Message:    "leave ledger " + err.Error() + ", row excluded from the working-day count",
	}
}

// ParseDate accepts Excel serial numbers and YYYY-MM-DD, DD-MM-YYYY or MM-DD-YYYY text,
// with "/" as an alternative separator and an optional time suffix.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if f <= 0 {
			return time.Time{}, fmt.Errorf("invalid serial date %q", raw)
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	s := strings.ReplaceAll(raw, "/", "-")
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func parseDays(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", ""))
	if raw == "" {
		return 0, fmt.Errorf("total days is empty")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("total days %q is not a number", raw)
	}
	return f, nil
}
