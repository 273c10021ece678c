package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORKTIME_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, time.Second, cfg.AlarmPoll)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.False(t, cfg.Headless)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WORKTIME_DATA_DIR", dir)
	t.Setenv("WORKTIME_HTTP_ADDR", "127.0.0.1:9123")
	t.Setenv("WORKTIME_LOG_LEVEL", "debug")
	t.Setenv("WORKTIME_ALARM_POLL", "250ms")
	t.Setenv("WORKTIME_HEADLESS", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "127.0.0.1:9123", cfg.HTTPAddr)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 250*time.Millisecond, cfg.AlarmPoll)
	assert.True(t, cfg.Headless)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"empty data dir", "WORKTIME_DATA_DIR", ""},
		{"unknown log level", "WORKTIME_LOG_LEVEL", "loud"},
		{"poll too slow", "WORKTIME_ALARM_POLL", "5m"},
		{"negative tick", "WORKTIME_TICK", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WORKTIME_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestUnparseableValuesFallBack(t *testing.T) {
	t.Setenv("WORKTIME_DATA_DIR", t.TempDir())
	t.Setenv("WORKTIME_ALARM_POLL", "soon")
	t.Setenv("WORKTIME_HEADLESS", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.AlarmPoll)
	assert.False(t, cfg.Headless)
}
