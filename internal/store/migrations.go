package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one row per preprocessing run
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dataset_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			classes INTEGER NOT NULL DEFAULT 0,
			videos INTEGER NOT NULL DEFAULT 0,
			sequences INTEGER NOT NULL DEFAULT 0,
			samples INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		)`,

		// Run videos table - per-video outcome for each run
		`CREATE TABLE IF NOT EXISTS run_videos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			class TEXT NOT NULL,
			path TEXT NOT NULL,
			sequences INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL CHECK(status IN ('ok', 'no_sequences', 'decode_error')),
			error TEXT NOT NULL DEFAULT ''
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_run_videos_run_id ON run_videos(run_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
