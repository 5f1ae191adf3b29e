package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrNoData is returned when there are no workout records to analyze
var ErrNoData = errors.New("no workout data available")

// ErrInvalidRecord is returned when a workout record fails validation
var ErrInvalidRecord = errors.New("invalid workout record")

// Profile holds the athlete's physiological constants used by the
// TRIMP model. Values are per-subject and must be passed explicitly;
// there is no package-level default in use anywhere.
type Profile struct {
	RestingHR float64
	MaxHR     float64
}

// DefaultProfile returns sensible defaults if not configured
func DefaultProfile() Profile {
	return Profile{
		RestingHR: 45,
		MaxHR:     197,
	}
}

// Validate checks that the profile can produce a positive HR reserve
func (p Profile) Validate() error {
	if p.MaxHR <= p.RestingHR {
		return fmt.Errorf("max HR (%v) must be greater than resting HR (%v)", p.MaxHR, p.RestingHR)
	}
	return nil
}

// WorkoutRecord is a single synced session as supplied by the store.
// AvgHR of 0 means the heart rate was not recorded.
type WorkoutRecord struct {
	Date        time.Time
	DurationMin float64
	AvgHR       float64
}

// DailyLoad is the summed training load for one calendar day.
// A series of DailyLoad is always dense: rest days carry load 0.
type DailyLoad struct {
	Date time.Time
	Load float64
}

// DayMetrics holds the smoothed physiology values for one day.
// Fitness is the 42-day EMA of load (CTL), Fatigue the 7-day EMA
// (ATL), and Form is always Fitness - Fatigue (TSB).
type DayMetrics struct {
	Date    time.Time
	Load    float64
	Fitness float64
	Fatigue float64
	Form    float64
}

// Status is the categorical workload state derived from the
// fatigue/fitness ratio of the latest day.
type Status int

const (
	StatusRecovery Status = iota
	StatusOptimal
	StatusHigh
	StatusOverreach
)

// String returns the display label for the status
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusHigh:
		return "High"
	case StatusOverreach:
		return "Overreach"
	default:
		return "Recovery"
	}
}

// Smoothing spans for the two EMAs. 42 days tracks the ~6-week
// adaptation window, 7 days tracks short-term reactivity.
const (
	fitnessSpan = 42.0
	fatigueSpan = 7.0
)

// Banister TRIMP coefficients (male defaults)
const (
	trimpScale    = 0.64
	trimpExponent = 1.92
)

// TRIMP calculates the Training Impulse for a single session:
//
//	load = duration (min) * hrr * 0.64 * e^(1.92 * hrr)
//
// where hrr is the heart-rate-reserve fraction. An AvgHR of 0 is the
// missing-data sentinel and contributes exactly zero load. An hrr
// below zero (avg HR under resting, usually sensor noise on short
// warm-ups) is intentionally not clamped; the formula yields a load
// near zero for those sessions.
func TRIMP(durationMin, avgHR float64, p Profile) float64 {
	if avgHR == 0 {
		return 0
	}

	reserve := p.MaxHR - p.RestingHR
	if reserve <= 0 {
		return 0
	}

	hrr := (avgHR - p.RestingHR) / reserve
	return durationMin * hrr * trimpScale * math.Exp(trimpExponent*hrr)
}

// BuildDailySeries turns raw workout records into one load value per
// calendar day. Records may arrive in any order and may share dates;
// same-day sessions accumulate. The result covers every day from the
// earliest record through asOf (or through the latest record if any
// postdate asOf), with rest days filled as zero so that downstream
// smoothing decays correctly.
//
// Records are validated eagerly: negative or non-finite durations and
// heart rates are rejected before they can poison the EMA recurrence,
// since a single NaN would corrupt every subsequent day.
func BuildDailySeries(records []WorkoutRecord, asOf time.Time, p Profile) ([]DailyLoad, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	loadByDay := make(map[string]float64)
	var first, last time.Time

	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.Date.Format("2006-01-02"), err)
		}

		day := truncateDay(r.Date)
		loadByDay[dayKey(day)] += TRIMP(r.DurationMin, r.AvgHR, p)

		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	// Extend through "today" so fatigue decays even without new data
	end := truncateDay(asOf)
	if last.After(end) {
		end = last
	}

	var series []DailyLoad
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyLoad{
			Date: d,
			Load: loadByDay[dayKey(d)],
		})
	}

	return series, nil
}

// ApplyPhysiology computes the smoothed fitness/fatigue/form series
// from a dense, ascending daily load series. Both EMAs use the
// standard span-N recurrence (alpha = 2/(N+1)) seeded with the first
// day's load, so short histories carry a warm-up bias toward that
// first session.
//
// The recurrence is causal and strictly sequential: each day depends
// only on its own load and the previous smoothed values.
func ApplyPhysiology(daily []DailyLoad) []DayMetrics {
	if len(daily) == 0 {
		return nil
	}

	sorted := make([]DailyLoad, len(daily))
	copy(sorted, daily)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	fitnessAlpha := 2.0 / (fitnessSpan + 1.0)
	fatigueAlpha := 2.0 / (fatigueSpan + 1.0)

	fitness := sorted[0].Load
	fatigue := sorted[0].Load

	metrics := make([]DayMetrics, len(sorted))
	for i, d := range sorted {
		if i > 0 {
			fitness = fitnessAlpha*d.Load + (1-fitnessAlpha)*fitness
			fatigue = fatigueAlpha*d.Load + (1-fatigueAlpha)*fatigue
		}

		metrics[i] = DayMetrics{
			Date:    d.Date,
			Load:    d.Load,
			Fitness: fitness,
			Fatigue: fatigue,
			Form:    fitness - fatigue,
		}
	}

	return metrics
}

// ClassifyStatus derives the workload ratio and its categorical label
// from the latest day's smoothed values. Boundaries are inclusive on
// the lower bound: a ratio of exactly 0.8 or 1.3 is Optimal, exactly
// 1.5 is High.
func ClassifyStatus(fitness, fatigue float64) (ratio float64, s Status) {
	if fitness > 0 {
		ratio = fatigue / fitness
	}

	switch {
	case ratio >= 0.8 && ratio <= 1.3:
		return ratio, StatusOptimal
	case ratio > 1.3 && ratio <= 1.5:
		return ratio, StatusHigh
	case ratio > 1.5:
		return ratio, StatusOverreach
	default:
		return ratio, StatusRecovery
	}
}

// Snapshot is the latest-day summary used by the dashboard
type Snapshot struct {
	Latest DayMetrics
	Ratio  float64
	Status Status
}

// CurrentSnapshot runs the full pipeline and returns the most recent
// day's metrics plus the derived status. The pipeline is a pure
// function of its inputs: identical records, asOf and profile always
// produce identical output.
func CurrentSnapshot(records []WorkoutRecord, asOf time.Time, p Profile) (*Snapshot, error) {
	daily, err := BuildDailySeries(records, asOf, p)
	if err != nil {
		return nil, err
	}

	metrics := ApplyPhysiology(daily)
	latest := metrics[len(metrics)-1]
	ratio, status := ClassifyStatus(latest.Fitness, latest.Fatigue)

	return &Snapshot{
		Latest: latest,
		Ratio:  ratio,
		Status: status,
	}, nil
}

func validateRecord(r WorkoutRecord) error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}
	if r.DurationMin < 0 || math.IsNaN(r.DurationMin) || math.IsInf(r.DurationMin, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidRecord, r.DurationMin)
	}
	if r.AvgHR < 0 || math.IsNaN(r.AvgHR) || math.IsInf(r.AvgHR, 0) {
		return fmt.Errorf("%w: avg HR %v", ErrInvalidRecord, r.AvgHR)
	}
	return nil
}

// truncateDay drops the time-of-day component, keeping the location
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
