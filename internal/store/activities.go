package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, name, type, start_time, start_time_local,
			duration_min, distance_km, avg_hr, max_hr,
			calories, elevation_gain, avg_speed, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			start_time = excluded.start_time,
			start_time_local = excluded.start_time_local,
			duration_min = excluded.duration_min,
			distance_km = excluded.distance_km,
			avg_hr = excluded.avg_hr,
			max_hr = excluded.max_hr,
			calories = excluded.calories,
			elevation_gain = excluded.elevation_gain,
			avg_speed = excluded.avg_speed,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.Type,
		a.StartTime.Format(time.RFC3339), a.StartTimeLocal.Format(time.RFC3339),
		a.DurationMin, a.DistanceKm, a.AvgHR, a.MaxHR,
		a.Calories, a.ElevationGain, a.AvgSpeed,
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT id, name, type, start_time, start_time_local,
			duration_min, distance_km, avg_hr, max_hr,
			calories, elevation_gain, avg_speed
		FROM activities
		WHERE id = ?
	`, id)

	a, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// ListActivities returns activities ordered by start time descending
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, type, start_time, start_time_local,
			duration_min, distance_km, avg_hr, max_hr,
			calories, elevation_gain, avg_speed
		FROM activities
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesSince returns activities starting on or after the
// given time, ordered ascending for the analysis pipeline.
func (db *DB) ListActivitiesSince(since time.Time) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, type, start_time, start_time_local,
			duration_min, distance_km, avg_hr, max_hr,
			calories, elevation_gain, avg_speed
		FROM activities
		WHERE start_time >= ?
		ORDER BY start_time ASC
	`, since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesByType returns activities of one normalized type,
// newest first.
func (db *DB) ListActivitiesByType(activityType string, limit int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, type, start_time, start_time_local,
			duration_min, distance_km, avg_hr, max_hr,
			calories, elevation_gain, avg_speed
		FROM activities
		WHERE type = ?
		ORDER BY start_time DESC
		LIMIT ?
	`, activityType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// LatestActivityTime returns the newest start time, or the zero time
// if nothing is stored yet.
func (db *DB) LatestActivityTime() (time.Time, error) {
	var raw sql.NullString
	err := db.QueryRow("SELECT MAX(start_time) FROM activities").Scan(&raw)
	if err != nil {
		return time.Time{}, err
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw.String)
}

// scanActivity scans one activity through a row's Scan function
func scanActivity(scan func(...any) error) (*Activity, error) {
	var a Activity
	var startTime, startTimeLocal string

	err := scan(
		&a.ID, &a.Name, &a.Type, &startTime, &startTimeLocal,
		&a.DurationMin, &a.DistanceKm, &a.AvgHR, &a.MaxHR,
		&a.Calories, &a.ElevationGain, &a.AvgSpeed,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	a.StartTime, parseErr = time.Parse(time.RFC3339, startTime)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, parseErr)
	}
	a.StartTimeLocal, parseErr = time.Parse(time.RFC3339, startTimeLocal)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_time_local %q: %w", startTimeLocal, parseErr)
	}

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}
