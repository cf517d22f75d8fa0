// Package directory provides the employee master data joined into the report. The
// directory is loaded once before a run and is read-only afterwards.
package directory

import (
	"context"
	"strings"

	"github.com/gcu-hr/attendance-reconciler/internal/model"
	"github.com/gcu-hr/attendance-reconciler/internal/sheet"
)

// Source loads the directory from wherever it lives.
type Source interface {
	Employees(ctx context.Context) ([]model.Employee, error)
}

// Directory is an immutable id index.
type Directory struct {
	byID map[string]model.Employee
}

// New indexes employees by trimmed id. Later duplicates win.
func New(employees []model.Employee) *Directory {
	d := &Directory{byID: make(map[string]model.Employee, len(employees))}
	for _, e := range employees {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			continue
		}
		d.byID[e.ID] = e
	}
	return d
}

// Load reads src into a Directory.
func Load(ctx context.Context, src Source) (*Directory, error) {
	employees, err := src.Employees(ctx)
	if err != nil {
		return nil, err
	}
	return New(employees), nil
}

// Lookup finds an employee by id.
func (d *Directory) Lookup(id string) (model.Employee, bool) {
	if d == nil {
		return model.Employee{}, false
	}
	e, ok := d.byID[strings.TrimSpace(id)]
	return e, ok
}

// Len is the number of employees.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.byID)
}

var tableColumns = []sheet.Column{
	{Key: "Emp Id", Aliases: []string{"Emp ID", "Employee ID", "EmpId"}, Required: true},
	{Key: "Name", Aliases: []string{"Names", "Employee Name"}, Required: true},
	{Key: "Designation", Required: true},
	{Key: "Department", Required: true},
}

// TableSource reads the directory from an uploaded sheet.
type TableSource struct {
	Table sheet.Table
}

// Employees parses the sheet rows below the header.
func (s TableSource) Employees(_ context.Context) ([]model.Employee, error) {
	h, err := sheet.Resolve(s.Table, 0, tableColumns)
	if err != nil {
		return nil, err
	}
	var out []model.Employee
	for i := 1; i < s.Table.Len(); i++ {
		row := s.Table.Row(i)
		id := h.Value(row, "Emp Id")
		if id == "" {
			continue
		}
		out = append(out, model.Employee{
			ID:          id,
			Name:        h.Value(row, "Name"),
			Designation: h.Value(row, "Designation"),
			Department:  h.Value(row, "Department"),
		})
	}
	return out, nil
}
