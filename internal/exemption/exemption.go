// Package exemption reads the exempted-leaves workbook and forgives the counted
// occurrences from computed attendance.
package exemption

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

// Sheet names of the workbook.
const (
	SheetLate    = "late"
	SheetHalfDay = "half_day"
	SheetFullDay = "full_day"
)

const (
	colEmpID = "Emp Id"
	colName  = "Name"
)

var columns = []sheet.Column{
	{Key: colEmpID, Aliases: []string{"Emp ID", "Employee ID", "EmpId"}, Required: true},
	{Key: colName, Required: true},
}

// MissingSheetError means one of the three exemption sheets is absent.
type MissingSheetError struct {
	Sheet     string
	Available []string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("exempted leaves workbook: sheet %q not found (sheets: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

// Record is the number of exempted occurrences per category for one employee.
type Record struct {
	EmployeeID string  `json:"emp_id"`
	Name       string  `json:"name"`
	Late       float64 `json:"exempt_late"`
	HalfDay    float64 `json:"exempt_half_day"`
	FullDay    float64 `json:"exempt_full_day"`
}

// ParseWorkbook counts exemptions in the late, half_day and full_day sheets and merges
// them by employee id. An employee missing from a sheet has zero exemptions there.
func ParseWorkbook(wb sheet.Workbook) ([]Record, error) {
	byEmp := make(map[string]*Record)
	for _, name := range []string{SheetLate, SheetHalfDay, SheetFullDay} {
		t, ok := wb.Sheet(name)
		if !ok {
			return nil, &MissingSheetError{Sheet: name, Available: wb.Names()}
		}
		counts, err := countSheet(t)
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			r, exists := byEmp[c.id]
			if !exists {
				r = &Record{EmployeeID: c.id, Name: c.name}
				byEmp[c.id] = r
			}
			if r.Name == "" {
				r.Name = c.name
			}
			switch name {
			case SheetLate:
				r.Late += c.n
			case SheetHalfDay:
				r.HalfDay += c.n
			case SheetFullDay:
				r.FullDay += c.n
			}
		}
	}

	out := make([]Record, 0, len(byEmp))
	for _, r := range byEmp {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

type sheetCount struct {
	id, name string
	n        float64
}

// countSheet treats the columns other than id and name as (date, note) pairs and counts
// every populated date cell as one occurrence.
func countSheet(t sheet.Table) ([]sheetCount, error) {
	h, err := sheet.Resolve(t, 0, columns)
	if err != nil {
		return nil, err
	}
	idCol, nameCol := h[colEmpID], h[colName]

	var dateCols []int
	pos := 0
	for c := 0; c < t.Width(); c++ {
		if c == idCol || c == nameCol {
			continue
		}
		if pos%2 == 0 {
			dateCols = append(dateCols, c)
		}
		pos++
	}

	var out []sheetCount
	for r := 1; r < t.Len(); r++ {
		id := t.Cell(r, idCol)
		if id == "" {
			continue
		}
		n := 0.0
		for _, c := range dateCols {
			if t.Cell(r, c) != "" {
				n++
			}
		}
		out = append(out, sheetCount{id: id, name: t.Cell(r, nameCol), n: n})
	}
	return out, nil
}

// Counts are the attendance occurrences an exemption can forgive.
type Counts struct {
	Late    float64 `json:"late"`
	HalfDay float64 `json:"half_days"`
	FullDay float64 `json:"full_days"`
}

// Adjust subtracts the exemptions from raw, never going below zero.
func Adjust(raw Counts, rec Record) Counts {
	return Counts{
		Late:    floor(raw.Late - rec.Late),
		HalfDay: floor(raw.HalfDay - rec.HalfDay),
		FullDay: floor(raw.FullDay - rec.FullDay),
	}
}

func floor(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// ByEmployee indexes records by employee id.
func ByEmployee(records []Record) map[string]Record {
	m := make(map[string]Record, len(records))
	for _, r := range records {
		m[r.EmployeeID] = r
	}
	return m
}
