package calendar

import (
	"strconv"
	"strings"
	"time"
)

// Label is the date assigned to one column of the day-number header. Placeholder
// columns (blank cells, "Clock In" captions, impossible days) have Valid == false.
type Label struct {
	Date  time.Time
	Valid bool
}

// Key returns the MM_DD form of the label, or "" for placeholders.
func (l Label) Key() string {
	if !l.Valid {
		return ""
	}
	return Key(l.Date)
}

// Label walks the raw day numbers of a header row and dates each column. The month
// pointer advances over the months spanned by the period each time a day number is
// smaller than the previous one; it never runs past the last month.
func (p Period) Label(dayHeader []string) []Label {
	months := p.months()
	labels := make([]Label, len(dayHeader))
	idx, prev := 0, 0
	for i, raw := range dayHeader {
		day, ok := dayNumber(raw)
		if !ok {
			continue
		}
		if day < prev && idx < len(months)-1 {
			idx++
		}
		prev = day

		m := months[idx]
		d := time.Date(m.Year(), m.Month(), day, 0, 0, 0, 0, time.UTC)
		if d.Month() != m.Month() {
			continue
		}
		labels[i] = Label{Date: d, Valid: true}
	}
	return labels
}

func dayNumber(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// numeric cells read raw can carry a ".0" suffix
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
		if d := int(f); d >= 1 && d <= 31 {
			return d, true
		}
	}
	return 0, false
}
