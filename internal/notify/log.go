package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// LogAlerts writes alerts to the log. It backs headless mode and keeps the
// currently visible alerts so the HTTP API can list them.
type LogAlerts struct {
	mu      sync.Mutex
	visible map[string]Alert
}

// NewLogAlerts creates an empty LogAlerts.
func NewLogAlerts() *LogAlerts {
	return &LogAlerts{visible: make(map[string]Alert)}
}

func (alerts *LogAlerts) Show(_ context.Context, alert Alert) error {
	alerts.mu.Lock()
	alerts.visible[alert.ID] = alert
	alerts.mu.Unlock()

	log.Info().
		Str("alert", alert.ID).
		Strs("actions", alert.Actions).
		Msg(alert.Message)
	return nil
}

func (alerts *LogAlerts) Clear(_ context.Context, id string) error {
	alerts.mu.Lock()
	delete(alerts.visible, id)
	alerts.mu.Unlock()
	return nil
}

// Visible reports whether the alert id is currently shown.
func (alerts *LogAlerts) Visible(id string) (Alert, bool) {
	alerts.mu.Lock()
	defer alerts.mu.Unlock()
	alert, ok := alerts.visible[id]
	return alert, ok
}

// LogBadge records the badge and logs changes only.
type LogBadge struct {
	mu    sync.Mutex
	text  string
	color string
}

func (badge *LogBadge) SetText(text string) error {
	badge.mu.Lock()
	changed := badge.text != text
	badge.text = text
	badge.mu.Unlock()

	if changed {
		log.Debug().Str("badge", text).Msg("Badge updated")
	}
	return nil
}

func (badge *LogBadge) SetColor(color string) error {
	badge.mu.Lock()
	badge.color = color
	badge.mu.Unlock()
	return nil
}

// Current returns the last text and color.
func (badge *LogBadge) Current() (string, string) {
	badge.mu.Lock()
	defer badge.mu.Unlock()
	return badge.text, badge.color
}
