package analysis

import (
	"strings"
	"time"
)

// Half marathon distance with a small GPS tolerance
const halfMarathonKm = 21.09

// ActivitySummary is the slice of an activity the yearly goal and
// trend calculations need.
type ActivitySummary struct {
	Date        time.Time
	Type        string
	DistanceKm  float64
	DurationMin float64
	AvgHR       float64
}

// YearGoals defines the annual targets tracked on the progress screen
type YearGoals struct {
	RunningKm      float64
	HalfMarathons  int
	StrengthCount  int
	ActiveDays     int
}

// DefaultGoals returns the standing targets for the year
func DefaultGoals() YearGoals {
	return YearGoals{
		RunningKm:     2026,
		HalfMarathons: 26,
		StrengthCount: 104,
		ActiveDays:    200,
	}
}

// GoalProgress is one goal's position against its target
type GoalProgress struct {
	Name    string
	Unit    string
	Current float64
	Target  float64
}

// Percent returns completion in [0, 100], capped at 100
func (g GoalProgress) Percent() float64 {
	if g.Target <= 0 {
		return 0
	}
	pct := g.Current / g.Target * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// NormalizeType collapses provider activity type variants into the
// buckets the goals use. Treadmill and trail runs count as running;
// indoor cycling counts as cycling.
func NormalizeType(activityType string) string {
	t := strings.ToLower(strings.TrimSpace(activityType))
	switch t {
	case "treadmill_running", "trail_running", "track_running", "street_running":
		return "running"
	case "indoor_cycling", "virtual_ride", "road_biking", "mountain_biking":
		return "cycling"
	case "strength_training", "indoor_cardio":
		return "strength"
	case "lap_swimming", "open_water_swimming":
		return "swimming"
	case "":
		return "other"
	default:
		return t
	}
}

// ComputeGoalProgress evaluates the year's activities against the
// targets. Only activities dated inside the given year count.
func ComputeGoalProgress(activities []ActivitySummary, year int, goals YearGoals) []GoalProgress {
	var runKm float64
	var halfs, strength int
	activeDays := make(map[string]bool)

	for _, a := range activities {
		if a.Date.Year() != year {
			continue
		}

		normalized := NormalizeType(a.Type)
		if a.DurationMin > 0 {
			activeDays[dayKey(a.Date)] = true
		}

		switch normalized {
		case "running":
			runKm += a.DistanceKm
			if a.DistanceKm >= halfMarathonKm {
				halfs++
			}
		case "strength":
			strength++
		}
	}

	return []GoalProgress{
		{Name: "Running distance", Unit: "km", Current: runKm, Target: goals.RunningKm},
		{Name: "Half marathons", Unit: "runs", Current: float64(halfs), Target: float64(goals.HalfMarathons)},
		{Name: "Strength sessions", Unit: "sessions", Current: float64(strength), Target: float64(goals.StrengthCount)},
		{Name: "Active days", Unit: "days", Current: float64(len(activeDays)), Target: float64(goals.ActiveDays)},
	}
}

// PaceForTarget returns how far ahead (positive) or behind (negative)
// of the linear year pace a goal currently sits, in the goal's unit.
func PaceForTarget(g GoalProgress, asOf time.Time) float64 {
	yearStart := time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, asOf.Location())
	yearEnd := yearStart.AddDate(1, 0, 0)

	elapsed := asOf.Sub(yearStart).Hours() / yearEnd.Sub(yearStart).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > 1 {
		elapsed = 1
	}

	return g.Current - g.Target*elapsed
}
