package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			profile_id TEXT NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities (summary data from the provider's activity list)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_time TEXT NOT NULL,
			start_time_local TEXT NOT NULL,
			duration_min REAL NOT NULL,
			distance_km REAL NOT NULL,
			avg_hr REAL,
			max_hr REAL,
			calories REAL,
			elevation_gain REAL,
			avg_speed REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Daily wellness summaries (one row per calendar day)
		`CREATE TABLE IF NOT EXISTS wellness (
			date TEXT PRIMARY KEY,
			steps INTEGER,
			resting_hr REAL,
			stress_avg REAL,
			body_battery_max REAL,
			body_battery_min REAL,
			sleep_score REAL,
			sleep_hours REAL,
			hrv_ms REAL,
			vo2max REAL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Cached coach responses (singleton row)
		`CREATE TABLE IF NOT EXISTS coach_cache (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			prompt_hash TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
