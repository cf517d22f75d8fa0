package sheet

import (
	"fmt"
	"strings"
)

// MissingColumnError reports a required column that is absent after normalisation.
type MissingColumnError struct {
	Sheet     string
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q: required column %q not found (available: %s)",
		e.Sheet, e.Column, strings.Join(e.Available, ", "))
}

// Column describes one logical column and the header spellings that map to it.
type Column struct {
	Key      string
	Aliases  []string
	Required bool
}

// Header maps a logical column key to its index in the table.
type Header map[string]int

// Has reports whether key was resolved.
func (h Header) Has(key string) bool {
	_, ok := h[key]
	return ok
}

// Value returns the trimmed cell for key in row, or "" when the column is absent.
func (h Header) Value(row []string, key string) string {
	i, ok := h[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Normalize canonicalises a header cell: trims, drops non-breaking spaces, lower-cases
// and collapses underscores and runs of whitespace into single spaces.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "\u00a0", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Resolve matches the header row of t against cols. The first matching header cell wins.
func Resolve(t Table, headerRow int, cols []Column) (Header, error) {
	row := t.Row(headerRow)
	index := make(map[string]int, len(row))
	var available []string
	for i, cell := range row {
		n := Normalize(cell)
		if n == "" {
			continue
		}
		available = append(available, strings.TrimSpace(cell))
		if _, seen := index[n]; !seen {
			index[n] = i
		}
	}

	h := make(Header, len(cols))
	for _, col := range cols {
		for _, alias := range append([]string{col.Key}, col.Aliases...) {
			if i, ok := index[Normalize(alias)]; ok {
				h[col.Key] = i
				break
			}
		}
		if _, ok := h[col.Key]; !ok && col.Required {
			return nil, &MissingColumnError{Sheet: t.Name, Column: col.Key, Available: available}
		}
	}
	return h, nil
}
