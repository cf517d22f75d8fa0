package model

import "fmt"

// Warning kinds returned alongside a successful reconciliation.
const (
	WarnAmbiguousDate   = "AmbiguousDate"
	WarnJoinGap         = "JoinGap"
	WarnInvalidOverride = "InvalidOverride"
	WarnInvalidDays     = "InvalidDays"
	WarnInvalidRange    = "InvalidRange"
)

// Employee is one entry of the employee directory.
type Employee struct {
	ID          string `json:"emp_id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
}

// Warning is a data-quality issue that was recovered locally.
type Warning struct {
	Kind       string `json:"kind"`
	Cohort     string `json:"cohort,omitempty"`
	EmployeeID string `json:"emp_id,omitempty"`
	Message    string `json:"message"`
}

func (w Warning) String() string {
	if w.Cohort != "" {
		return fmt.Sprintf("%s [%s]: %s", w.Kind, w.Cohort, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// WithCohort returns a copy of warnings tagged with the cohort name.
func WithCohort(warnings []Warning, cohort string) []Warning {
	out := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if w.Cohort == "" {
			w.Cohort = cohort
		}
		out = append(out, w)
	}
	return out
}
