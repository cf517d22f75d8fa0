package leave

import (
	"sort"
	"strings"
	"time"

	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
)

const (
	statusApproved     = "approved"
	casualLeave        = "casual leave"
	extraordinaryLeave = "extraordinary leave"

	halfDay = 0.5
)

// WorkingCalendar is the holiday set of the attendance period.
type WorkingCalendar interface {
	IsWorkingDay(t time.Time) bool
	Period() calendar.Period
}

// Summary is one employee's approved leave within the attendance period.
type Summary struct {
	EmployeeID            string             `json:"emp_id"`
	Name                  string             `json:"name"`
	PerType               map[string]float64 `json:"per_type"`
	TotalWorkingDayLeaves float64            `json:"total_wd_leaves"`
	CasualLeaves          float64            `json:"casual_leaves"`
	Approved              float64            `json:"approved_leaves"`
}

// Reconciler counts approved leave against one period's working calendar.
type Reconciler struct {
	calendar WorkingCalendar
}

// NewReconciler creates a reconciler for cal.
func NewReconciler(cal WorkingCalendar) *Reconciler {
	return &Reconciler{calendar: cal}
}

func isCasual(leaveType string) bool {
	return strings.EqualFold(strings.TrimSpace(leaveType), casualLeave)
}

func countsTowardWorkingDays(leaveType string) bool {
	t := strings.ToLower(strings.TrimSpace(leaveType))
	return t != casualLeave && t != extraordinaryLeave
}

// Count returns the day-equivalents one request contributes. ok is false when the
// request is not approved, has no usable dates or falls outside the period.
//
// Half-day requests count 0.5 only when they start on a working day. Other requests
// count the working days of their span clipped to the period, never more than the
// declared days. Casual leave counts every calendar day of the clipped span since it
// is approved whether or not the day is scheduled.
func (r *Reconciler) Count(req Request) (float64, bool) {
	if !req.Approved() || !req.DatesValid || req.To.Before(req.From) {
		return 0, false
	}
	from, to, ok := r.calendar.Period().Clip(req.From, req.To)
	if !ok {
		return 0, false
	}
	declared := req.DeclaredDays

	if isCasual(req.Type) {
		if declared == halfDay {
			return halfDay, true
		}
		n := 0.0
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			n++
		}
		return capAt(n, declared), true
	}

	if declared == halfDay {
		if r.calendar.IsWorkingDay(from) {
			return halfDay, true
		}
		return 0, true
	}

	n := 0.0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if r.calendar.IsWorkingDay(d) {
			n++
		}
	}
	return capAt(n, declared), true
}

func capAt(n, declared float64) float64 {
	if n > declared {
		return declared
	}
	return n
}

// Reconcile aggregates approved requests per employee, sorted by employee id.
func (r *Reconciler) Reconcile(requests []Request) []Summary {
	byEmp := make(map[string]*Summary)
	typeNames := make(map[string]string)

	for _, req := range requests {
		n, ok := r.Count(req)
		if !ok {
			continue
		}
		s, exists := byEmp[req.EmployeeID]
		if !exists {
			s = &Summary{EmployeeID: req.EmployeeID, Name: req.Name, PerType: make(map[string]float64)}
			byEmp[req.EmployeeID] = s
		}
		if s.Name == "" {
			s.Name = req.Name
		}

		key := strings.ToLower(strings.TrimSpace(req.Type))
		name, seen := typeNames[key]
		if !seen {
			name = strings.TrimSpace(req.Type)
			typeNames[key] = name
		}
		s.PerType[name] += n

		switch {
		case isCasual(req.Type):
			s.CasualLeaves += n
		case countsTowardWorkingDays(req.Type):
			s.TotalWorkingDayLeaves += n
		}
	}

	out := make([]Summary, 0, len(byEmp))
	for _, s := range byEmp {
		s.Approved = s.TotalWorkingDayLeaves + s.CasualLeaves
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

// ByEmployee indexes summaries by employee id.
func ByEmployee(summaries []Summary) map[string]Summary {
	m := make(map[string]Summary, len(summaries))
	for _, s := range summaries {
		m[s.EmployeeID] = s
	}
	return m
}
