package model

import (
	"strings"
	"time"
)

// Badge display modes.
const (
	BadgeMinutes = "minutes"
	BadgeClock   = "clock"
	BadgeOff     = "off"
)

// Notification styles.
const (
	StyleRich   = "rich"
	StyleSimple = "simple"
)

// NotificationToggles enables individual reminders.
type NotificationToggles struct {
	PreLeave bool `json:"preLeave"`
	EndTime  bool `json:"endTime"`
	LunchEnd bool `json:"lunchEnd"`
}

// Holiday is a day off in YYYY-MM-DD form.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Settings contains the synchronized user configuration.
type Settings struct {
	RequiredHours   float64 `json:"requiredHours"`
	PreLeaveMinutes int     `json:"preLeaveMinutes"`

	Language          string `json:"language"`
	Theme             string `json:"theme"`
	BadgeMode         string `json:"badgeMode"`
	NotificationStyle string `json:"notificationStyle"`

	Weekdays []int     `json:"weekdays"`
	Holidays []Holiday `json:"holidays"`

	Notifications NotificationToggles `json:"notifications"`

	MicroBreakEnabled         bool `json:"microBreakEnabled"`
	MicroBreakIntervalMinutes int  `json:"microBreakInterval"`
	LunchReminderMinutes      int  `json:"lunchReminderMinutes"`

	LaunchAtLogin bool `json:"launchAtLogin"`
}

// DefaultSettings returns the configuration used on first launch.
func DefaultSettings() Settings {
	return Settings{
		RequiredHours:     8,
		PreLeaveMinutes:   10,
		Language:          "en",
		Theme:             "light",
		BadgeMode:         BadgeMinutes,
		NotificationStyle: StyleRich,
		Weekdays:          []int{1, 2, 3, 4, 5},
		Holidays:          nil,
		Notifications: NotificationToggles{
			PreLeave: true,
			EndTime:  true,
			LunchEnd: true,
		},
		MicroBreakEnabled:         false,
		MicroBreakIntervalMinutes: 60,
		LunchReminderMinutes:      60,
	}
}

// Normalize replaces out-of-range values with defaults, field by field.
func (settings Settings) Normalize() Settings {
	defaults := DefaultSettings()

	if settings.RequiredHours <= 0 || settings.RequiredHours > 24 {
		settings.RequiredHours = defaults.RequiredHours
	}
	if settings.PreLeaveMinutes <= 0 {
		settings.PreLeaveMinutes = defaults.PreLeaveMinutes
	}
	switch settings.Language {
	case "en", "vi":
	default:
		settings.Language = defaults.Language
	}
	switch settings.Theme {
	case "light", "dark":
	default:
		settings.Theme = defaults.Theme
	}
	switch settings.BadgeMode {
	case BadgeMinutes, BadgeClock, BadgeOff:
	default:
		settings.BadgeMode = defaults.BadgeMode
	}
	switch settings.NotificationStyle {
	case StyleRich, StyleSimple:
	default:
		settings.NotificationStyle = defaults.NotificationStyle
	}
	if settings.Weekdays == nil {
		settings.Weekdays = defaults.Weekdays
	}
	if settings.MicroBreakIntervalMinutes <= 0 {
		settings.MicroBreakIntervalMinutes = defaults.MicroBreakIntervalMinutes
	}
	if settings.LunchReminderMinutes <= 0 {
		settings.LunchReminderMinutes = defaults.LunchReminderMinutes
	}
	return settings
}

// MicroBreakInterval returns the recurring micro-break period.
func (settings Settings) MicroBreakInterval() time.Duration {
	return time.Duration(settings.MicroBreakIntervalMinutes) * time.Minute
}

// LunchReminder returns the fixed delay of the lunch-end reminder.
func (settings Settings) LunchReminder() time.Duration {
	return time.Duration(settings.LunchReminderMinutes) * time.Minute
}

// IsWorkday reports whether the given day is a configured weekday and not a holiday.
func (settings Settings) IsWorkday(day time.Time) bool {
	date := day.Format("2006-01-02")
	for _, holiday := range settings.Holidays {
		if strings.TrimSpace(holiday.Date) == date {
			return false
		}
	}

	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	for _, configured := range settings.Weekdays {
		if configured == weekday {
			return true
		}
	}
	return false
}

// HoursToDuration converts decimal hours to a duration rounded to the millisecond.
func HoursToDuration(hours float64) time.Duration {
	return (time.Duration(hours*float64(time.Hour)) + time.Millisecond/2).Truncate(time.Millisecond)
}
