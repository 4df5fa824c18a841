package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the control loop.
type Session struct {
	ID        string
	Backend   string
	StartedAt time.Time
	EndedAt   *time.Time
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new open session with a fresh id.
func (r *SessionRepository) Start(ctx context.Context, backend string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Backend:   backend,
		StartedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, backend, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Backend, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// End stamps the session's end time.
func (r *SessionRepository) End(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a session by id.
func (r *SessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, backend, started_at, ended_at FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// List returns the most recent sessions first.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]*Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, backend, started_at, ended_at FROM sessions
		 ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime
	if err := row.Scan(&sess.ID, &sess.Backend, &sess.StartedAt, &ended); err != nil {
		return nil, err
	}
	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}
