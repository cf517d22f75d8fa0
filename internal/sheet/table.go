// Package sheet holds the tabular inputs of a reconciliation run: workbooks and CSV
// exports loaded into plain string grids, plus header canonicalisation.
package sheet

import "strings"

// Table is one sheet of string cells. Rows may be ragged; missing cells read as "".
type Table struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed value at row r, column c or "" when out of range.
func (t Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[r][c])
}

// Row returns row r or nil when out of range.
func (t Table) Row(r int) []string {
	if r < 0 || r >= len(t.Rows) {
		return nil
	}
	return t.Rows[r]
}

// Len is the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Width is the length of the longest row.
func (t Table) Width() int {
	w := 0
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []Table
	active int
}

// NewWorkbook builds a workbook whose first sheet is the active one.
func NewWorkbook(sheets ...Table) Workbook {
	return Workbook{Sheets: sheets}
}

// Sheet finds a sheet by name ignoring case and surrounding spaces.
func (w Workbook) Sheet(name string) (Table, bool) {
	for _, s := range w.Sheets {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Table{}, false
}

// First returns the active sheet.
func (w Workbook) First() (Table, bool) {
	if len(w.Sheets) == 0 {
		return Table{}, false
	}
	if w.active >= 0 && w.active < len(w.Sheets) {
		return w.Sheets[w.active], true
	}
	return w.Sheets[0], true
}

// Names lists the sheet names in workbook order.
func (w Workbook) Names() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}
