package store

import "fmt"

// runMigrations brings the schema up to date. Every statement is
// idempotent, so the full list runs on each startup.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Named tuning profiles. The active flag marks the one the
		// pipeline loads; the API keeps it on exactly one row.
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			tuning TEXT NOT NULL DEFAULT '{}',
			active INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Emitted intent log, one row per intent.
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			intent TEXT NOT NULL,
			gesture TEXT NOT NULL,
			confidence REAL NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			direction TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		// Plugin actions bound to intent types.
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			intent_type TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Application settings as key-value pairs.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_intent_type ON actions(intent_type)`,
	}

	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}
