package biometric

import (
	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

const (
	clockInPrefix  = "clock_in_"
	clockOutPrefix = "clock_out_"
)

// Tables renders the cohort as the three aligned tables of the export: all punches,
// clock-in only and clock-out only. Each starts with the identity columns.
func (c *Cohort) Tables() (all, in, out sheet.Table) {
	identity := []string{"Emp Id", "Names"}
	var inHdr, outHdr []string
	for _, d := range c.Dates {
		inHdr = append(inHdr, clockInPrefix+calendar.Key(d))
		outHdr = append(outHdr, clockOutPrefix+calendar.Key(d))
	}

	all = sheet.Table{Name: c.Name + " all", Rows: [][]string{concat(identity, inHdr, outHdr)}}
	in = sheet.Table{Name: c.Name + " in", Rows: [][]string{concat(identity, inHdr)}}
	out = sheet.Table{Name: c.Name + " out", Rows: [][]string{concat(identity, outHdr)}}

	for _, e := range c.Employees {
		ins := make([]string, 0, len(e.Records))
		outs := make([]string, 0, len(e.Records))
		for _, r := range e.Records {
			ins = append(ins, punch(r.ClockIn))
			outs = append(outs, punch(r.ClockOut))
		}
		id := []string{e.ID, e.Name}
		all.Rows = append(all.Rows, concat(id, ins, outs))
		in.Rows = append(in.Rows, concat(id, ins))
		out.Rows = append(out.Rows, concat(id, outs))
	}
	return all, in, out
}

func punch(c *attendance.Clock) string {
	if c == nil {
		return "0"
	}
	return c.String()
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
