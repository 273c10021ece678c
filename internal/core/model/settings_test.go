package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReplacesInvalidFields(t *testing.T) {
	settings := Settings{
		RequiredHours:     -1,
		PreLeaveMinutes:   0,
		Language:          "fr",
		BadgeMode:         "percent",
		NotificationStyle: "loud",
		Notifications:     NotificationToggles{PreLeave: false},
	}

	normalized := settings.Normalize()
	defaults := DefaultSettings()

	assert.Equal(t, defaults.RequiredHours, normalized.RequiredHours)
	assert.Equal(t, defaults.PreLeaveMinutes, normalized.PreLeaveMinutes)
	assert.Equal(t, "en", normalized.Language)
	assert.Equal(t, BadgeMinutes, normalized.BadgeMode)
	assert.Equal(t, StyleRich, normalized.NotificationStyle)
	assert.Equal(t, defaults.Weekdays, normalized.Weekdays)
	assert.Equal(t, 60, normalized.MicroBreakIntervalMinutes)
	assert.Equal(t, 60, normalized.LunchReminderMinutes)
	assert.False(t, normalized.Notifications.PreLeave, "toggles are kept as configured")
}

func TestNormalizeKeepsValidFields(t *testing.T) {
	settings := DefaultSettings()
	settings.RequiredHours = 7.5
	settings.Language = "vi"
	settings.BadgeMode = BadgeClock

	normalized := settings.Normalize()

	assert.Equal(t, 7.5, normalized.RequiredHours)
	assert.Equal(t, "vi", normalized.Language)
	assert.Equal(t, BadgeClock, normalized.BadgeMode)
}

func TestHoursToDuration(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  time.Duration
	}{
		{name: "whole hours", hours: 8, want: 8 * time.Hour},
		{name: "half hour", hours: 1.5, want: 90 * time.Minute},
		{name: "fraction", hours: 7.6, want: 7*time.Hour + 36*time.Minute},
		{name: "zero", hours: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoursToDuration(tt.hours))
		})
	}
}

func TestIsWorkday(t *testing.T) {
	settings := DefaultSettings()
	settings.Holidays = []Holiday{{Date: "2026-10-21", Name: "Founders day"}}

	monday := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	wednesday := time.Date(2026, 10, 21, 9, 0, 0, 0, time.Local)
	sunday := time.Date(2026, 10, 25, 9, 0, 0, 0, time.Local)

	assert.True(t, settings.IsWorkday(monday))
	assert.False(t, settings.IsWorkday(wednesday))
	assert.False(t, settings.IsWorkday(sunday))

	settings.Weekdays = []int{7}
	assert.True(t, settings.IsWorkday(sunday))
}
