package storage

import (
	"context"
	"testing"
	"time"

	"worktime/internal/core/model"
	"worktime/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStateStoreDefaultsWhenEmpty(t *testing.T) {
	store := NewStateStore(testDB(t))

	state, err := store.LoadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.NewState(model.DefaultSettings()), state)
}

func TestStateStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(testDB(t))

	start := time.Date(2026, 10, 19, 8, 30, 0, 0, time.Local)
	state := session.NewState(model.DefaultSettings())
	require.True(t, state.StartWork(start, model.DefaultSettings()))
	require.True(t, state.StartLunch(start.Add(3*time.Hour)))
	require.NoError(t, store.SaveState(ctx, state))

	loaded, err := store.LoadState(ctx)
	require.NoError(t, err)

	assert.Equal(t, state.ID, loaded.ID)
	assert.True(t, loaded.IsWorking)
	assert.True(t, loaded.IsOnLunch)
	require.NotNil(t, loaded.StartTime)
	assert.True(t, loaded.StartTime.Equal(start))
	require.NotNil(t, loaded.LunchStartTime)
	assert.True(t, loaded.LunchStartTime.Equal(start.Add(3*time.Hour)))
	assert.Nil(t, loaded.LunchEndTime)
	assert.Nil(t, loaded.EndedAt)
	assert.Equal(t, 8.0, loaded.RequiredHours)
	assert.Equal(t, 10, loaded.PreLeaveMinutes)
}

func TestStateStoreResetIsPersisted(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(testDB(t))

	settings := model.DefaultSettings()
	settings.RequiredHours = 6.5
	state := session.NewState(settings)
	require.True(t, state.StartWork(time.Now(), settings))
	require.NoError(t, store.SaveState(ctx, state))

	state.Reset()
	require.NoError(t, store.SaveState(ctx, state))

	loaded, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.State{RequiredHours: 6.5, PreLeaveMinutes: 10}, loaded)
}

func TestStateStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore(testDB(t))

	state := session.NewState(model.DefaultSettings())
	require.True(t, state.StartWork(time.Now(), model.DefaultSettings()))
	require.NoError(t, store.SaveState(ctx, state))
	require.NoError(t, store.ClearState(ctx))

	loaded, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.NewState(model.DefaultSettings()), loaded)
}

func TestAlarmStore(t *testing.T) {
	ctx := context.Background()
	store := NewAlarmStore(testDB(t))

	first := time.UnixMilli(1_800_000_000_000)
	require.NoError(t, store.PutAlarm(ctx, "endTime", first))
	require.NoError(t, store.PutAlarm(ctx, "preLeave", first.Add(-10*time.Minute)))
	require.NoError(t, store.PutAlarm(ctx, "endTime", first.Add(time.Hour)))

	alarms, err := store.ListAlarms(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 2)
	assert.True(t, alarms["endTime"].Equal(first.Add(time.Hour)), "same name replaces")

	require.NoError(t, store.DeleteAlarm(ctx, "endTime"))
	require.NoError(t, store.DeleteAlarm(ctx, "missing"))
	alarms, err = store.ListAlarms(ctx)
	require.NoError(t, err)
	assert.Len(t, alarms, 1)

	require.NoError(t, store.DeleteAllAlarms(ctx))
	alarms, err = store.ListAlarms(ctx)
	require.NoError(t, err)
	assert.Empty(t, alarms)
}
