package holiday

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcu-hr/attendance-reconciler/internal/attendance"
	"github.com/gcu-hr/attendance-reconciler/internal/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 26 Dec 2025 (Friday) to 25 Jan 2026.
var period = calendar.Period{Start: date(2025, time.December, 26), End: date(2026, time.January, 25)}

func recordsFor(d time.Time, total, missing int) []attendance.Record {
	var out []attendance.Record
	for i := 0; i < total; i++ {
		in := "08:30:00"
		if i < missing {
			in = "0"
		}
		out = append(out, attendance.NewRecord(fmt.Sprintf("GCU%03d", i), d, in, "17:00:00"))
	}
	return out
}

func TestStatistical(t *testing.T) {
	tuesday := date(2025, time.December, 30)
	wednesday := date(2025, time.December, 31)
	records := append(recordsFor(tuesday, 100, 95), recordsFor(wednesday, 100, 89)...)

	got := Statistical(records, DefaultAbsentThreshold)
	assert.Equal(t, []time.Time{tuesday}, got)

	assert.Equal(t, []time.Time{tuesday, wednesday}, Statistical(records, 0.85))
	assert.Empty(t, Statistical(nil, DefaultAbsentThreshold))
}

func TestBuild(t *testing.T) {
	tuesday := date(2025, time.December, 30)
	s := Build(Input{
		Period:      period,
		Statistical: []time.Time{tuesday},
	})

	assert.True(t, s.Contains(tuesday))
	assert.False(t, s.IsWorkingDay(tuesday))
	// first Saturday and every Sunday
	assert.True(t, s.Contains(date(2026, time.January, 3)))
	assert.True(t, s.Contains(date(2025, time.December, 28)))
	// second Saturday is a working day
	assert.False(t, s.Contains(date(2026, time.January, 10)))
	assert.True(t, s.IsWorkingDay(date(2026, time.January, 10)))
	// outside the period nothing is a working day
	assert.False(t, s.IsWorkingDay(date(2026, time.January, 27)))
	assert.Equal(t, period, s.Period())
}

func TestBuildManualOverrides(t *testing.T) {
	newYear := date(2026, time.January, 1)
	firstSaturday := date(2026, time.January, 3)
	tuesday := date(2025, time.December, 30)

	s := Build(Input{
		Period:            period,
		Statistical:       []time.Time{tuesday},
		ManualHolidays:    []time.Time{newYear, tuesday, date(2026, time.February, 2)},
		ManualWorkingDays: []time.Time{firstSaturday, tuesday},
	})

	assert.True(t, s.Contains(newYear))
	assert.False(t, s.Contains(firstSaturday), "a manual working day always wins")
	assert.False(t, s.Contains(tuesday), "a manual working day always wins")
	assert.False(t, s.Contains(date(2026, time.February, 2)), "manual holidays outside the period are ignored")
	assert.True(t, s.IsWorkingDay(firstSaturday))
}

func TestSetDaysAndJSON(t *testing.T) {
	newYear := date(2026, time.January, 1)
	s := Build(Input{
		Period:         calendar.Period{Start: date(2026, time.January, 1), End: date(2026, time.January, 4)},
		Statistical:    []time.Time{newYear},
		ManualHolidays: []time.Time{newYear},
	})

	// 1 Jan (statistical + manual), 3 Jan first Saturday, 4 Jan Sunday
	assert.Equal(t, []string{"01_01", "01_03", "01_04"}, s.Keys())
	assert.Equal(t, 3, s.Len())

	days := s.Days()
	require.Len(t, days, 3)
	assert.Equal(t, []Source{SourceStatistical, SourceManual}, days[0].Sources)
	assert.Equal(t, []Source{SourceCalendar}, days[1].Sources)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded []Day
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Len(t, decoded, 3)
	assert.Equal(t, "01_04", decoded[2].Key)
}
