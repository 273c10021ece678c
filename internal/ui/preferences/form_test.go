package preferences

import (
	"testing"

	"worktime/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaysRoundTrip(t *testing.T) {
	labels := WeekdayLabels([]int{5, 1, 9, 3})
	assert.Equal(t, []string{"Fri", "Mon", "Wed"}, labels)
	assert.Equal(t, []int{1, 3, 5}, Weekdays(labels))
	assert.Empty(t, Weekdays(nil))
}

func TestParseHolidays(t *testing.T) {
	holidays, err := ParseHolidays("2026-12-25 Christmas\n\n  2027-01-01  \n")
	require.NoError(t, err)
	assert.Equal(t, []model.Holiday{
		{Date: "2026-12-25", Name: "Christmas"},
		{Date: "2027-01-01", Name: ""},
	}, holidays)
	assert.Equal(t, "2026-12-25 Christmas\n2027-01-01", FormatHolidays(holidays))

	_, err = ParseHolidays("25/12/2026 Christmas")
	assert.Error(t, err)
}

func TestParseNumbers(t *testing.T) {
	hours, ok := parseHours("7.5")
	assert.True(t, ok)
	assert.Equal(t, 7.5, hours)

	_, ok = parseHours("25")
	assert.False(t, ok)
	_, ok = parsePositiveInt("-3")
	assert.False(t, ok)
	assert.Equal(t, "8", formatHours(8))
}
