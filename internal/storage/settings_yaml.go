package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"worktime/internal/core/model"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlNotifications struct {
	PreLeave *bool `yaml:"pre_leave"`
	EndTime  *bool `yaml:"end_time"`
	LunchEnd *bool `yaml:"lunch_end"`
}

type yamlHoliday struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

type yamlSettings struct {
	RequiredHours             float64           `yaml:"required_hours"`
	PreLeaveMinutes           int               `yaml:"pre_leave_minutes"`
	Language                  string            `yaml:"language"`
	Theme                     string            `yaml:"theme"`
	BadgeMode                 string            `yaml:"badge_mode"`
	NotificationStyle         string            `yaml:"notification_style"`
	Weekdays                  []int             `yaml:"weekdays"`
	Holidays                  []yamlHoliday     `yaml:"holidays"`
	Notifications             yamlNotifications `yaml:"notifications"`
	MicroBreakEnabled         bool              `yaml:"micro_break_enabled"`
	MicroBreakIntervalMinutes int               `yaml:"micro_break_interval_minutes"`
	LunchReminderMinutes      int               `yaml:"lunch_reminder_minutes"`
	LaunchAtLogin             bool              `yaml:"launch_at_login"`
}

// SettingsFile is the synchronized settings scope backed by a YAML file.
// Reads are served from memory until Reload is called.
type SettingsFile struct {
	path string

	mu     sync.Mutex
	cached *model.Settings
}

// NewSettingsFile returns a settings store for the given file path.
func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path}
}

// SettingsPath returns dir/settings.yaml.
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// Path returns the backing file path.
func (file *SettingsFile) Path() string {
	return file.path
}

// Settings returns the cached settings, reading the file on first use.
// A missing file yields defaults.
func (file *SettingsFile) Settings() (model.Settings, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	if file.cached != nil {
		return *file.cached, nil
	}
	settings, err := LoadSettings(file.path)
	if err != nil {
		return settings, err
	}
	file.cached = &settings
	return settings, nil
}

// Reload drops the cache and reads the file again.
func (file *SettingsFile) Reload() (model.Settings, error) {
	file.mu.Lock()
	file.cached = nil
	file.mu.Unlock()
	return file.Settings()
}

// Save writes settings and refreshes the cache.
func (file *SettingsFile) Save(settings model.Settings) error {
	settings = settings.Normalize()
	if err := SaveSettings(file.path, settings); err != nil {
		return err
	}
	file.mu.Lock()
	file.cached = &settings
	file.mu.Unlock()
	return nil
}

// Clear removes the file so subsequent reads return defaults.
func (file *SettingsFile) Clear() error {
	file.mu.Lock()
	defer file.mu.Unlock()

	file.cached = nil
	if err := os.Remove(file.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove settings file: %w", err)
	}
	return nil
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Normalize(), nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	holidays := make([]yamlHoliday, 0, len(settings.Holidays))
	for _, holiday := range settings.Holidays {
		holidays = append(holidays, yamlHoliday{Date: holiday.Date, Name: holiday.Name})
	}

	fileData := yamlSettings{
		RequiredHours:     settings.RequiredHours,
		PreLeaveMinutes:   settings.PreLeaveMinutes,
		Language:          settings.Language,
		Theme:             settings.Theme,
		BadgeMode:         settings.BadgeMode,
		NotificationStyle: settings.NotificationStyle,
		Weekdays:          settings.Weekdays,
		Holidays:          holidays,
		Notifications: yamlNotifications{
			PreLeave: boolPtr(settings.Notifications.PreLeave),
			EndTime:  boolPtr(settings.Notifications.EndTime),
			LunchEnd: boolPtr(settings.Notifications.LunchEnd),
		},
		MicroBreakEnabled:         settings.MicroBreakEnabled,
		MicroBreakIntervalMinutes: settings.MicroBreakIntervalMinutes,
		LaunchAtLogin:             settings.LaunchAtLogin,
		LunchReminderMinutes:      settings.LunchReminderMinutes,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.RequiredHours > 0 {
		settings.RequiredHours = fileData.RequiredHours
	}
	if fileData.PreLeaveMinutes > 0 {
		settings.PreLeaveMinutes = fileData.PreLeaveMinutes
	}
	if fileData.Language != "" {
		settings.Language = fileData.Language
	}
	if fileData.Theme != "" {
		settings.Theme = fileData.Theme
	}
	if fileData.BadgeMode != "" {
		settings.BadgeMode = fileData.BadgeMode
	}
	if fileData.NotificationStyle != "" {
		settings.NotificationStyle = fileData.NotificationStyle
	}
	if fileData.Weekdays != nil {
		settings.Weekdays = fileData.Weekdays
	}
	for _, holiday := range fileData.Holidays {
		settings.Holidays = append(settings.Holidays, model.Holiday{Date: holiday.Date, Name: holiday.Name})
	}

	if fileData.Notifications.PreLeave != nil {
		settings.Notifications.PreLeave = *fileData.Notifications.PreLeave
	}
	if fileData.Notifications.EndTime != nil {
		settings.Notifications.EndTime = *fileData.Notifications.EndTime
	}
	if fileData.Notifications.LunchEnd != nil {
		settings.Notifications.LunchEnd = *fileData.Notifications.LunchEnd
	}

	settings.MicroBreakEnabled = fileData.MicroBreakEnabled
	settings.LaunchAtLogin = fileData.LaunchAtLogin
	if fileData.MicroBreakIntervalMinutes > 0 {
		settings.MicroBreakIntervalMinutes = fileData.MicroBreakIntervalMinutes
	}
	if fileData.LunchReminderMinutes > 0 {
		settings.LunchReminderMinutes = fileData.LunchReminderMinutes
	}
}

func boolPtr(value bool) *bool {
	return &value
}
