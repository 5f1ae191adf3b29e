package store

import (
	"database/sql"
	"fmt"
	"time"
)

const wellnessDateFormat = "2006-01-02"

// UpsertWellness inserts or updates one day of wellness metrics
func (db *DB) UpsertWellness(w *WellnessDay) error {
	_, err := db.Exec(`
		INSERT INTO wellness (
			date, steps, resting_hr, stress_avg,
			body_battery_max, body_battery_min,
			sleep_score, sleep_hours, hrv_ms, vo2max, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			steps = excluded.steps,
			resting_hr = excluded.resting_hr,
			stress_avg = excluded.stress_avg,
			body_battery_max = excluded.body_battery_max,
			body_battery_min = excluded.body_battery_min,
			sleep_score = excluded.sleep_score,
			sleep_hours = excluded.sleep_hours,
			hrv_ms = excluded.hrv_ms,
			vo2max = excluded.vo2max,
			updated_at = CURRENT_TIMESTAMP
	`,
		w.Date.Format(wellnessDateFormat), w.Steps, w.RestingHR, w.StressAvg,
		w.BodyBatteryMax, w.BodyBatteryMin,
		w.SleepScore, w.SleepHours, w.HRVms, w.VO2Max,
	)
	return err
}

// ListWellnessSince returns wellness days on or after the given day,
// ascending.
func (db *DB) ListWellnessSince(since time.Time) ([]WellnessDay, error) {
	rows, err := db.Query(`
		SELECT date, steps, resting_hr, stress_avg,
			body_battery_max, body_battery_min,
			sleep_score, sleep_hours, hrv_ms, vo2max
		FROM wellness
		WHERE date >= ?
		ORDER BY date ASC
	`, since.Format(wellnessDateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []WellnessDay
	for rows.Next() {
		var w WellnessDay
		var date string
		err := rows.Scan(
			&date, &w.Steps, &w.RestingHR, &w.StressAvg,
			&w.BodyBatteryMax, &w.BodyBatteryMin,
			&w.SleepScore, &w.SleepHours, &w.HRVms, &w.VO2Max,
		)
		if err != nil {
			return nil, err
		}
		w.Date, err = time.Parse(wellnessDateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parsing wellness date %q: %w", date, err)
		}
		days = append(days, w)
	}

	return days, rows.Err()
}

// LatestWellnessDate returns the newest stored day, or the zero time
func (db *DB) LatestWellnessDate() (time.Time, error) {
	var raw sql.NullString
	err := db.QueryRow("SELECT MAX(date) FROM wellness").Scan(&raw)
	if err != nil {
		return time.Time{}, err
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(wellnessDateFormat, raw.String)
}
