package storage

import (
	"context"
	"fmt"
	"time"
)

// AlarmStore persists pending one-shot alarms so they survive restarts.
type AlarmStore struct {
	store *DB
}

// NewAlarmStore creates an alarm store on the given database.
func NewAlarmStore(store *DB) *AlarmStore {
	return &AlarmStore{store: store}
}

// PutAlarm stores or replaces the alarm with the given name.
func (s *AlarmStore) PutAlarm(ctx context.Context, name string, when time.Time) error {
	_, err := s.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO alarms (name, fire_at) VALUES (?, ?)`,
		name, when.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put alarm %s: %w", name, err)
	}
	return nil
}

// DeleteAlarm removes a single alarm. Missing names are not an error.
func (s *AlarmStore) DeleteAlarm(ctx context.Context, name string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM alarms WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete alarm %s: %w", name, err)
	}
	return nil
}

// DeleteAllAlarms removes every alarm.
func (s *AlarmStore) DeleteAllAlarms(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM alarms`); err != nil {
		return fmt.Errorf("delete alarms: %w", err)
	}
	return nil
}

// ListAlarms returns all pending alarms by name.
func (s *AlarmStore) ListAlarms(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT name, fire_at FROM alarms`)
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	defer rows.Close()

	alarms := make(map[string]time.Time)
	for rows.Next() {
		var (
			name   string
			fireAt int64
		)
		if err := rows.Scan(&name, &fireAt); err != nil {
			return nil, fmt.Errorf("scan alarm row: %w", err)
		}
		alarms[name] = time.UnixMilli(fireAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alarms: %w", err)
	}
	return alarms, nil
}
