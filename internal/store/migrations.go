package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Exercises table - the prescribed exercise catalog
		`CREATE TABLE IF NOT EXISTS exercises (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			sets INTEGER NOT NULL DEFAULT 3,
			reps INTEGER NOT NULL DEFAULT 10,
			hold_seconds INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sessions table - completed coaching session summaries
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			exercise_id TEXT REFERENCES exercises(id) ON DELETE SET NULL,
			exercise_name TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL,
			reps INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 100,
			faults INTEGER NOT NULL DEFAULT 0
		)`,

		// Pain logs table - VAS pain check-ins
		`CREATE TABLE IF NOT EXISTS pain_logs (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL CHECK(score BETWEEN 0 AND 10),
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_sessions_exercise_id ON sessions(exercise_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_pain_logs_created_at ON pain_logs(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
