package store

func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per process run.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			backend TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Discrete actions fired during a session. Cursor moves are not kept.
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK(kind IN ('click', 'minimize', 'close')),
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
