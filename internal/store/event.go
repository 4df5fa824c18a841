package store

import (
	"context"
	"database/sql"
	"time"
)

// Event is one journaled action.
type Event struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts e and fills in its ID and, if unset, CreatedAt.
func (r *EventRepository) Record(ctx context.Context, e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO events (session_id, kind, x, y, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.X, e.Y, e.Error, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// Recent returns up to limit events across all sessions, newest first.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*Event, error) {
	return r.query(ctx,
		`SELECT id, session_id, kind, x, y, error, created_at FROM events
		 ORDER BY id DESC LIMIT ?`, limit)
}

// BySession returns a session's events in the order they fired.
func (r *EventRepository) BySession(ctx context.Context, sessionID string) ([]*Event, error) {
	return r.query(ctx,
		`SELECT id, session_id, kind, x, y, error, created_at FROM events
		 WHERE session_id = ? ORDER BY id`, sessionID)
}

// Counts returns the number of events per kind for a session.
func (r *EventRepository) Counts(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM events WHERE session_id = ? GROUP BY kind`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.X, &e.Y, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
