package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		year  int
		start time.Time
		end   time.Time
	}{
		{
			name:  "both years",
			input: "December-26-2025 To January-25-2026",
			start: date(2025, time.December, 26),
			end:   date(2026, time.January, 25),
		},
		{
			name:  "start year only wraps into next year",
			input: "December-26-2025 To January-25",
			start: date(2025, time.December, 26),
			end:   date(2026, time.January, 25),
		},
		{
			name:  "end year only mirrors back",
			input: "Dec-26 to Jan-25-2026",
			start: date(2025, time.December, 26),
			end:   date(2026, time.January, 25),
		},
		{
			name:  "no years uses reference year",
			input: "March-1 To March-31",
			year:  2024,
			start: date(2024, time.March, 1),
			end:   date(2024, time.March, 31),
		},
		{
			name:  "no years wrapping",
			input: "november-26 TO december-25",
			year:  2025,
			start: date(2025, time.November, 26),
			end:   date(2025, time.December, 25),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseRange(tt.input, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.start, p.Start)
			assert.Equal(t, tt.end, p.End)
		})
	}
}

func TestParseRangeErrors(t *testing.T) {
	inputs := map[string]string{
		"missing separator": "December-26-2025 January-25-2026",
		"unknown month":     "Decembre-26-2025 To January-25-2026",
		"impossible day":    "February-30-2025 To March-25-2025",
		"ends before start": "March-25-2026 To March-01-2026",
		"no reference year": "March-1 To March-31",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRange(input, 0)
			var rangeErr *DateRangeParseError
			require.True(t, errors.As(err, &rangeErr), "got %v", err)
			assert.Equal(t, input, rangeErr.Input)
		})
	}
}

func TestPeriodClipAndContains(t *testing.T) {
	p := Period{Start: date(2025, time.December, 26), End: date(2026, time.January, 25)}

	assert.True(t, p.Contains(date(2025, time.December, 26)))
	assert.True(t, p.Contains(time.Date(2026, time.January, 25, 17, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(date(2026, time.January, 26)))

	from, to, ok := p.Clip(date(2025, time.December, 20), date(2025, time.December, 28))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 26), from)
	assert.Equal(t, date(2025, time.December, 28), to)

	_, _, ok = p.Clip(date(2026, time.February, 1), date(2026, time.February, 3))
	assert.False(t, ok)

	assert.Len(t, p.Days(), 31)
	assert.Equal(t, "26-Dec-2025 To 25-Jan-2026", p.String())
}

func TestPeriodLabel(t *testing.T) {
	p := Period{Start: date(2025, time.December, 26), End: date(2026, time.January, 25)}

	labels := p.Label([]string{"", "30", "31", "1", "2.0", "Clock In", "3"})
	require.Len(t, labels, 7)

	assert.False(t, labels[0].Valid)
	assert.Equal(t, "12_30", labels[1].Key())
	assert.Equal(t, date(2025, time.December, 31), labels[2].Date)
	assert.Equal(t, date(2026, time.January, 1), labels[3].Date)
	assert.Equal(t, date(2026, time.January, 2), labels[4].Date)
	assert.False(t, labels[5].Valid)
	assert.Equal(t, "", labels[5].Key())
	assert.Equal(t, "01_03", labels[6].Key())
}

func TestPeriodLabelImpossibleDay(t *testing.T) {
	p := Period{Start: date(2025, time.February, 1), End: date(2025, time.February, 28)}

	labels := p.Label([]string{"28", "29", "30"})
	assert.True(t, labels[0].Valid)
	assert.False(t, labels[1].Valid)
	assert.False(t, labels[2].Valid)
}

func TestParseMonth(t *testing.T) {
	m, ok := ParseMonth("SEPT")
	assert.False(t, ok)
	assert.Zero(t, m)

	m, ok = ParseMonth("sep")
	assert.True(t, ok)
	assert.Equal(t, time.September, m)

	m, ok = ParseMonth(" January ")
	assert.True(t, ok)
	assert.Equal(t, time.January, m)
}

func TestParseRangeAsOf(t *testing.T) {
	january := date(2026, time.January, 10)

	p, err := ParseRangeAsOf("December-26 To January-25", january)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.December, 26), p.Start)
	assert.Equal(t, date(2026, time.January, 25), p.End)

	p, err = ParseRangeAsOf("December-26 To January-25", date(2025, time.December, 28))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.December, 26), p.Start, "a period already under way stays in this year")

	p, err = ParseRangeAsOf("March-1 To March-31", january)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 1), p.Start)

	p, err = ParseRangeAsOf("December-26-2026 To January-25-2027", january)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.December, 26), p.Start, "explicit years are kept")

	_, err = ParseRangeAsOf("sometime", january)
	var rangeErr *DateRangeParseError
	assert.True(t, errors.As(err, &rangeErr))
}
