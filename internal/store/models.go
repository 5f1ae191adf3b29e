package store

import "time"

// Auth represents OAuth tokens for Garmin Connect API access
type Auth struct {
	ProfileID    string    `db:"profile_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Activity represents a synced activity summary
type Activity struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Type           string    `db:"type"`
	StartTime      time.Time `db:"start_time"`
	StartTimeLocal time.Time `db:"start_time_local"`
	DurationMin    float64   `db:"duration_min"`
	DistanceKm     float64   `db:"distance_km"`
	AvgHR          *float64  `db:"avg_hr"`         // nullable
	MaxHR          *float64  `db:"max_hr"`         // nullable
	Calories       *float64  `db:"calories"`       // nullable
	ElevationGain  *float64  `db:"elevation_gain"` // nullable, meters
	AvgSpeed       *float64  `db:"avg_speed"`      // nullable, m/s
}

// WellnessDay represents one day of daily-summary metrics.
// Zero means the watch did not report that metric.
type WellnessDay struct {
	Date           time.Time `db:"date"`
	Steps          int       `db:"steps"`
	RestingHR      float64   `db:"resting_hr"`
	StressAvg      float64   `db:"stress_avg"`
	BodyBatteryMax float64   `db:"body_battery_max"`
	BodyBatteryMin float64   `db:"body_battery_min"`
	SleepScore     float64   `db:"sleep_score"`
	SleepHours     float64   `db:"sleep_hours"`
	HRVms          float64   `db:"hrv_ms"`
	VO2Max         float64   `db:"vo2max"`
}

// CoachCache is the single stored AI coach response
type CoachCache struct {
	PromptHash string    `db:"prompt_hash"`
	Response   string    `db:"response"`
	CreatedAt  time.Time `db:"created_at"`
}
