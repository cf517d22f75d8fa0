package internal

import (
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

type punchBlock struct {
	id, name string
	in, out  []string
}

// biometricExport builds a sheet in the terminal's xlsx layout.
func biometricExport(name, rangeHeader string, days []string, blocks ...punchBlock) sheet.Table {
	body := make([][]string, 13*len(blocks))
	if len(body) < 7 {
		body = make([][]string, 7)
	}
	body[0] = []string{rangeHeader}
	body[6] = append([]string{"Days", "", ""}, days...)
	for k, b := range blocks {
		base := 13 * k
		body[base+4] = []string{b.id, "", b.name}
		body[base+7] = append([]string{"In", "", ""}, b.in...)
		body[base+8] = append([]string{"Out", "", ""}, b.out...)
	}
	return sheet.Table{Name: name, Rows: append([][]string{{"Attendance Report"}}, body...)}
}

func facultyExport() sheet.Table {
	return biometricExport("Faculty", "December-26-2025 To January-25-2026", []string{"29", "30", "31"},
		punchBlock{id: "GCU1", name: "Asha", in: []string{"08:30:00", "10:45:00", "0"}, out: []string{"17:00:00", "17:00:00", "0"}},
		punchBlock{id: "GCU2", name: "Ravi", in: []string{"0", "0", "08:00:00"}, out: []string{"18:00:00", "0", "17:00:00"}},
	)
}

func ledgerTable() sheet.Table {
	return sheet.Table{Name: "ERP Leave", Rows: [][]string{
		{"Emp Id", "Name", "Leave Type", "From Date", "To Date", "Status", "Total Days"},
		{"GCU1", "Asha", "Sick Leave", "2025-12-31", "2025-12-31", "Approved", "1"},
		{"GCU9", "Other", "Sick Leave", "2025-12-29", "2025-12-30", "Approved", "2"},
	}}
}

func exemptionsWorkbook() sheet.Workbook {
	header := []string{"Emp Id", "Name", "Date", "Remarks"}
	return sheet.NewWorkbook(
		sheet.Table{Name: "late", Rows: [][]string{header, {"GCU1", "Asha", "30-Dec-2025", "traffic"}}},
		sheet.Table{Name: "half_day", Rows: [][]string{header}},
		sheet.Table{Name: "full_day", Rows: [][]string{header}},
	)
}

func directoryTable() sheet.Table {
	return sheet.Table{Name: "employees", Rows: [][]string{
		{"Emp Id", "Name", "Designation", "Department"},
		{"GCU1", "Asha Rao", "Professor", "Physics"},
		{"GCU2", "Ravi", "Driver", "Transport"},
	}}
}
