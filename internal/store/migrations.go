package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Scans table - one row per completed video scan
		`CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			video_path TEXT NOT NULL,
			min_scene_duration REAL NOT NULL,
			min_area_ratio REAL NOT NULL,
			fps REAL NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			segment_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Segments table - detected slide transitions, ordered by frame index
		`CREATE TABLE IF NOT EXISTS segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			timestamp_sec REAL NOT NULL,
			change_ratio REAL NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_segments_scan_id ON segments(scan_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
