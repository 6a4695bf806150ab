package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/tradecal/internal/calendar"
)

// Snapshot is the stored metadata of one frozen schedule.
type Snapshot struct {
	ID        string    `json:"id"`
	Calendar  string    `json:"calendar"`
	Side      string    `json:"side"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Sessions  int       `json:"sessions"`
	CreatedAt time.Time `json:"created_at"`
}

const timeLayout = time.RFC3339

// SaveSnapshot freezes cal's full schedule and returns the stored
// metadata.
func (s *Store) SaveSnapshot(ctx context.Context, cal *calendar.Calendar) (Snapshot, error) {
	entries := cal.Schedule()
	snap := Snapshot{
		ID:        uuid.New().String(),
		Calendar:  cal.Name(),
		Side:      string(cal.Side()),
		Start:     cal.FirstSession(),
		End:       cal.LastSession(),
		Sessions:  len(entries),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedule_snapshots (id, calendar, side, start_date, end_date, sessions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Calendar, snap.Side,
		snap.Start.Format(timeLayout), snap.End.Format(timeLayout),
		snap.Sessions, snap.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_rows (snapshot_id, session, open, close, break_start, break_end)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var breakStart, breakEnd any
		if e.HasBreak() {
			breakStart = e.BreakStart.Format(timeLayout)
			breakEnd = e.BreakEnd.Format(timeLayout)
		}
		_, err = stmt.ExecContext(ctx,
			snap.ID, e.Session.Format(timeLayout),
			e.Open.Format(timeLayout), e.Close.Format(timeLayout),
			breakStart, breakEnd,
		)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to insert schedule row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.log.Info().
		Str("calendar", snap.Calendar).
		Str("snapshot", snap.ID).
		Int("sessions", snap.Sessions).
		Msg("saved schedule snapshot")
	return snap, nil
}

// ListSnapshots returns snapshot metadata, newest first. An empty
// calendar name lists every calendar.
func (s *Store) ListSnapshots(ctx context.Context, calendarName string) ([]Snapshot, error) {
	query := `
		SELECT id, calendar, side, start_date, end_date, sessions, created_at
		FROM schedule_snapshots`
	args := []any{}
	if calendarName != "" {
		query += ` WHERE calendar = ?`
		args = append(args, calendarName)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// GetSnapshot returns one snapshot's metadata and schedule rows.
func (s *Store) GetSnapshot(ctx context.Context, id string) (Snapshot, []calendar.ScheduleEntry, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, calendar, side, start_date, end_date, sessions, created_at
		FROM schedule_snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return Snapshot{}, nil, fmt.Errorf("snapshot %q not found", id)
	}
	if err != nil {
		return Snapshot{}, nil, err
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT session, open, close, break_start, break_end
		FROM schedule_rows WHERE snapshot_id = ? ORDER BY session`, id)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("failed to query schedule rows: %w", err)
	}
	defer rows.Close()

	var entries []calendar.ScheduleEntry
	for rows.Next() {
		var session, open, closeT string
		var breakStart, breakEnd sql.NullString
		if err := rows.Scan(&session, &open, &closeT, &breakStart, &breakEnd); err != nil {
			return Snapshot{}, nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		entry, err := parseEntry(session, open, closeT, breakStart, breakEnd)
		if err != nil {
			return Snapshot{}, nil, err
		}
		entries = append(entries, entry)
	}
	return snap, entries, rows.Err()
}

// DeleteSnapshot removes a snapshot and its rows.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM schedule_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	var start, end, created string
	err := row.Scan(&snap.ID, &snap.Calendar, &snap.Side, &start, &end, &snap.Sessions, &created)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Start, err = time.Parse(timeLayout, start); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot start: %w", err)
	}
	if snap.End, err = time.Parse(timeLayout, end); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot end: %w", err)
	}
	if snap.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot created_at: %w", err)
	}
	return snap, nil
}

func parseEntry(session, open, closeT string, breakStart, breakEnd sql.NullString) (calendar.ScheduleEntry, error) {
	var entry calendar.ScheduleEntry
	var err error
	if entry.Session, err = time.Parse(timeLayout, session); err != nil {
		return entry, fmt.Errorf("failed to parse session date: %w", err)
	}
	if entry.Open, err = time.Parse(timeLayout, open); err != nil {
		return entry, fmt.Errorf("failed to parse open: %w", err)
	}
	if entry.Close, err = time.Parse(timeLayout, closeT); err != nil {
		return entry, fmt.Errorf("failed to parse close: %w", err)
	}
	if breakStart.Valid {
		if entry.BreakStart, err = time.Parse(timeLayout, breakStart.String); err != nil {
			return entry, fmt.Errorf("failed to parse break start: %w", err)
		}
		if entry.BreakEnd, err = time.Parse(timeLayout, breakEnd.String); err != nil {
			return entry, fmt.Errorf("failed to parse break end: %w", err)
		}
	}
	return entry, nil
}
