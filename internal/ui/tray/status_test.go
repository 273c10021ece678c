package tray

import (
	"testing"
	"time"

	"worktime/internal/core/session"
	"worktime/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelFor(t *testing.T, lang string) Label {
	t.Helper()
	translator, err := notify.NewTranslator()
	require.NoError(t, err)
	return func(id string, data map[string]any) string {
		return translator.Message(lang, id, data)
	}
}

func TestStatusLabel(t *testing.T) {
	start := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	english := labelFor(t, "en")

	tests := []struct {
		name     string
		snapshot session.Snapshot
		want     string
	}{
		{"ready", session.Snapshot{Status: session.StatusReady}, "Ready"},
		{"ended", session.Snapshot{Status: session.StatusReady, StartTime: &start, Worked: 8 * time.Hour}, "Ready, 8h 00m worked today"},
		{"working", session.Snapshot{Status: session.StatusWorking, Remaining: 65*time.Minute + 30*time.Second}, "Working, 1h 05m left"},
		{"lunch", session.Snapshot{Status: session.StatusLunch, Worked: 3*time.Hour + 30*time.Minute}, "On lunch, 3h 30m worked"},
		{"overtime", session.Snapshot{Status: session.StatusOvertime, Remaining: -12 * time.Minute}, "Overtime +0h 12m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLabel(tt.snapshot, english))
		})
	}
}

func TestStatusLabelFollowsLanguage(t *testing.T) {
	vietnamese := labelFor(t, "vi")

	working := session.Snapshot{Status: session.StatusWorking, Remaining: 2 * time.Hour}
	assert.Equal(t, "Đang làm việc, còn 2h 00m", StatusLabel(working, vietnamese))
	assert.Equal(t, "Sẵn sàng", StatusLabel(session.Snapshot{Status: session.StatusReady}, vietnamese))
	assert.Equal(t, "Bắt đầu làm việc", vietnamese(notify.MsgMenuStartWork, nil))
	assert.Equal(t, "Trạng thái: Sẵn sàng", vietnamese(notify.MsgMenuStatus, map[string]any{"Status": "Sẵn sàng"}))
}

func TestFormatDurationClampsNegative(t *testing.T) {
	assert.Equal(t, "0h 00m", FormatDuration(-time.Minute))
	assert.Equal(t, "10h 00m", FormatDuration(10*time.Hour))
}
