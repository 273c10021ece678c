package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"worktime/internal/core/model"
	"worktime/internal/core/session"
)

// StateStore persists the single active session row.
type StateStore struct {
	store *DB
	now   func() time.Time
}

// NewStateStore creates a state store on the given database.
func NewStateStore(store *DB) *StateStore {
	return &StateStore{store: store, now: time.Now}
}

// LoadState returns the persisted session, or the defaulted idle state
// when nothing has been saved yet.
func (s *StateStore) LoadState(ctx context.Context) (session.State, error) {
	const query = `
		SELECT session_id, is_working, is_on_lunch, start_time, lunch_start_time,
		       lunch_end_time, ended_at, required_hours, pre_leave_minutes
		FROM session_state WHERE id = 1`

	var (
		state                                    session.State
		startTime, lunchStart, lunchEnd, endedAt sql.NullInt64
	)
	err := s.store.db.QueryRowContext(ctx, query).Scan(
		&state.ID, &state.IsWorking, &state.IsOnLunch, &startTime, &lunchStart,
		&lunchEnd, &endedAt, &state.RequiredHours, &state.PreLeaveMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return session.NewState(model.DefaultSettings()), nil
	}
	if err != nil {
		return session.State{}, fmt.Errorf("load session state: %w", err)
	}

	state.StartTime = fromMillis(startTime)
	state.LunchStartTime = fromMillis(lunchStart)
	state.LunchEndTime = fromMillis(lunchEnd)
	state.EndedAt = fromMillis(endedAt)
	return state, nil
}

// SaveState upserts the session row.
func (s *StateStore) SaveState(ctx context.Context, state session.State) error {
	const query = `
		INSERT OR REPLACE INTO session_state
		(id, session_id, is_working, is_on_lunch, start_time, lunch_start_time,
		 lunch_end_time, ended_at, required_hours, pre_leave_minutes, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.store.db.ExecContext(ctx, query,
		state.ID, state.IsWorking, state.IsOnLunch,
		toMillis(state.StartTime), toMillis(state.LunchStartTime),
		toMillis(state.LunchEndTime), toMillis(state.EndedAt),
		state.RequiredHours, state.PreLeaveMinutes, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// ClearState deletes the row so the next load returns defaults.
func (s *StateStore) ClearState(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM session_state`); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

func toMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value.UnixMilli(), Valid: true}
}

func fromMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	parsed := time.UnixMilli(value.Int64)
	return &parsed
}
