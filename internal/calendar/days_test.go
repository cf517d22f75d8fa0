package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRuleHoliday(t *testing.T) {
	// March 2025: Saturdays fall on 1, 8, 15, 22 and 29.
	assert.True(t, IsRuleHoliday(date(2025, time.March, 1)))
	assert.False(t, IsRuleHoliday(date(2025, time.March, 8)))
	assert.True(t, IsRuleHoliday(date(2025, time.March, 15)))
	assert.False(t, IsRuleHoliday(date(2025, time.March, 22)))
	assert.False(t, IsRuleHoliday(date(2025, time.March, 29)))
	assert.True(t, IsRuleHoliday(date(2025, time.March, 2)))
	assert.False(t, IsRuleHoliday(date(2025, time.March, 4)))
}

func TestKeyAndDay(t *testing.T) {
	ts := time.Date(2025, time.December, 7, 13, 45, 0, 0, time.FixedZone("IST", 19800))
	assert.Equal(t, "12_07", Key(ts))
	assert.Equal(t, date(2025, time.December, 7), Day(ts))
}

func TestParseDayList(t *testing.T) {
	days, errs := ParseDayList("25-Dec-2025, 1-January-2026,,bogus, 26-01-2026")
	require.Len(t, days, 3)
	assert.Equal(t, date(2025, time.December, 25), days[0])
	assert.Equal(t, date(2026, time.January, 1), days[1])
	assert.Equal(t, date(2026, time.January, 26), days[2])
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "bogus")

	days, errs = ParseDayList("")
	assert.Empty(t, days)
	assert.Empty(t, errs)
}
