// Package report joins the attendance, exemption, leave and directory views of a cohort
// into final report rows and renders them as a workbook.
package report

import (
	"fmt"
	"math"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
	"github.com/gcu-hr/attendance-reconciler/internal/directory"
	"github.com/gcu-hr/attendance-reconciler/internal/exemption"
	"github.com/gcu-hr/attendance-reconciler/internal/holiday"
	"github.com/gcu-hr/attendance-reconciler/internal/leave"
	"github.com/gcu-hr/attendance-reconciler/internal/model"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

// Row is one employee line of the final report.
type Row struct {
	Cohort             string  `json:"cohort"`
	EmployeeID         string  `json:"emp_id"`
	Name               string  `json:"name"`
	Designation        string  `json:"designation"`
	Department         string  `json:"department"`
	WorkingDays        float64 `json:"working_days"`
	Present            float64 `json:"present"`
	Absent             float64 `json:"absent"`
	HalfDays           float64 `json:"half_days"`
	FullDays           float64 `json:"full_days"`
	Late               float64 `json:"late"`
	ObservedLeaves     float64 `json:"observed_leaves"`
	ApprovedLeaves     float64 `json:"approved_leaves"`
	UnauthorizedLeaves float64 `json:"unauthorized_leaves"`
}

// CohortReport is everything produced for one cohort in a run.
type CohortReport struct {
	Cohort    string               `json:"cohort"`
	Period    calendar.Period      `json:"period"`
	Holidays  holiday.Set          `json:"holidays"`
	Summaries []attendance.Summary `json:"summaries"`
	Leaves    []leave.Summary      `json:"leaves"`
	Rows      []Row                `json:"rows"`
	Exempted  []Exempted           `json:"exempted,omitempty"`
	// Punches is the cohort's raw clock-in/clock-out grid.
	Punches sheet.Table `json:"-"`
}

// Exempted sets the occurrences counted for one employee against those forgiven.
type Exempted struct {
	EmployeeID     string  `json:"emp_id"`
	Name           string  `json:"name"`
	Late           float64 `json:"late"`
	ExemptLate     float64 `json:"exempt_late"`
	HalfDays       float64 `json:"half_days"`
	ExemptHalfDays float64 `json:"exempt_half_days"`
	FullDays       float64 `json:"full_days"`
	ExemptFullDays float64 `json:"exempt_full_days"`
}

// Input holds the per-cohort views Compose joins. Exemptions and Leaves are keyed by
// employee id.
type Input struct {
	Cohort     string
	Summaries  []attendance.Summary
	Exemptions map[string]exemption.Record
	Leaves     map[string]leave.Summary
	Directory  *directory.Directory
}

// Compose left-joins every summary with its exemption, leave and directory data. Missing
// exemption and leave data count as zero. An employee unknown to the directory keeps
// blank directory fields and yields a JoinGap warning. Rows follow summary order.
func Compose(in Input) ([]Row, []model.Warning) {
	var warnings []model.Warning
	rows := make([]Row, 0, len(in.Summaries))

	for _, s := range in.Summaries {
		counts := exemption.Adjust(exemption.Counts{
			Late:    float64(s.LateCount),
			HalfDay: float64(s.HalfDays),
			FullDay: float64(s.FullDays),
		}, in.Exemptions[s.EmployeeID])

		approved := in.Leaves[s.EmployeeID].Approved

		row := Row{
			Cohort:             in.Cohort,
			EmployeeID:         s.EmployeeID,
			Name:               s.Name,
			Designation:        s.Designation,
			WorkingDays:        s.WorkingDays,
			Present:            s.Present,
			Absent:             s.Absent,
			HalfDays:           counts.HalfDay,
			FullDays:           counts.FullDay,
			Late:               counts.Late,
			ObservedLeaves:     0.5*counts.HalfDay + counts.FullDay,
			ApprovedLeaves:     approved,
			UnauthorizedLeaves: math.Max(s.Absent-approved, 0),
		}

		if emp, ok := in.Directory.Lookup(s.EmployeeID); ok {
			if emp.Name != "" {
				row.Name = emp.Name
			}
			row.Designation = emp.Designation
			row.Department = emp.Department
		} else {
			warnings = append(warnings, model.Warning{
				Kind:       model.WarnJoinGap,
				Cohort:     in.Cohort,
				EmployeeID: s.EmployeeID,
				Message:    fmt.Sprintf("employee %s is not in the employee directory", s.EmployeeID),
			})
		}
		rows = append(rows, row)
	}
	return rows, warnings
}

// ExemptedRows lists the cohort's employees that hold an exemption record, in summary
// order, with their counts before adjustment.
func ExemptedRows(in Input) []Exempted {
	var out []Exempted
	for _, s := range in.Summaries {
		rec, ok := in.Exemptions[s.EmployeeID]
		if !ok {
			continue
		}
		out = append(out, Exempted{
			EmployeeID:     s.EmployeeID,
			Name:           s.Name,
			Late:           float64(s.LateCount),
			ExemptLate:     rec.Late,
			HalfDays:       float64(s.HalfDays),
			ExemptHalfDays: rec.HalfDay,
			FullDays:       float64(s.FullDays),
			ExemptFullDays: rec.FullDay,
		})
	}
	return out
}
