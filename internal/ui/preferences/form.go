package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"worktime/internal/core/model"
)

// weekdayLabels are indexed by ISO weekday minus one.
var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayLabels converts ISO weekdays to check labels.
func WeekdayLabels(weekdays []int) []string {
	labels := make([]string, 0, len(weekdays))
	for _, day := range weekdays {
		if day >= 1 && day <= 7 {
			labels = append(labels, weekdayLabels[day-1])
		}
	}
	return labels
}

// Weekdays converts check labels back to ISO weekdays in week order.
func Weekdays(labels []string) []int {
	selected := make(map[string]bool, len(labels))
	for _, label := range labels {
		selected[label] = true
	}
	weekdays := []int{}
	for index, label := range weekdayLabels {
		if selected[label] {
			weekdays = append(weekdays, index+1)
		}
	}
	return weekdays
}

// FormatHolidays renders holidays one per line as "YYYY-MM-DD name".
func FormatHolidays(holidays []model.Holiday) string {
	lines := make([]string, 0, len(holidays))
	for _, holiday := range holidays {
		lines = append(lines, strings.TrimSpace(holiday.Date+" "+holiday.Name))
	}
	return strings.Join(lines, "\n")
}

// ParseHolidays reads the FormatHolidays form. Blank lines are skipped.
func ParseHolidays(text string) ([]model.Holiday, error) {
	var holidays []model.Holiday
	for number, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		date, name, _ := strings.Cut(line, " ")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("holiday line %d: date must be YYYY-MM-DD", number+1)
		}
		holidays = append(holidays, model.Holiday{Date: date, Name: strings.TrimSpace(name)})
	}
	return holidays, nil
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseHours(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed <= 0 || parsed > 24 {
		return 0, false
	}
	return parsed, true
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
