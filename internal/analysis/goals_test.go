package analysis

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"running", "running"},
		{"treadmill_running", "running"},
		{"trail_running", "running"},
		{"Treadmill_Running", "running"},
		{"indoor_cycling", "cycling"},
		{"strength_training", "strength"},
		{"lap_swimming", "swimming"},
		{"yoga", "yoga"},
		{"", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeType(tt.input); got != tt.expected {
				t.Errorf("NormalizeType(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestComputeGoalProgress(t *testing.T) {
	mk := func(day int, typ string, km, min float64) ActivitySummary {
		return ActivitySummary{
			Date:        time.Date(2026, 1, day, 8, 0, 0, 0, time.UTC),
			Type:        typ,
			DistanceKm:  km,
			DurationMin: min,
		}
	}

	activities := []ActivitySummary{
		mk(1, "running", 10, 55),
		mk(2, "treadmill_running", 21.1, 110), // counts as a half
		mk(2, "strength_training", 0, 45),     // same day, one active day
		mk(3, "running", 21.08, 109),          // just under the half cutoff
		mk(4, "strength_training", 0, 40),
		{Date: time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), Type: "running", DistanceKm: 15, DurationMin: 80}, // wrong year
	}

	progress := ComputeGoalProgress(activities, 2026, DefaultGoals())
	if len(progress) != 4 {
		t.Fatalf("expected 4 goals, got %d", len(progress))
	}

	byName := make(map[string]GoalProgress)
	for _, g := range progress {
		byName[g.Name] = g
	}

	if km := byName["Running distance"].Current; math.Abs(km-52.18) > 0.01 {
		t.Errorf("running km = %v, want 52.18", km)
	}
	if halfs := byName["Half marathons"].Current; halfs != 1 {
		t.Errorf("half marathons = %v, want 1", halfs)
	}
	if str := byName["Strength sessions"].Current; str != 2 {
		t.Errorf("strength sessions = %v, want 2", str)
	}
	if days := byName["Active days"].Current; days != 4 {
		t.Errorf("active days = %v, want 4", days)
	}
}

func TestGoalProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		goal     GoalProgress
		expected float64
	}{
		{"halfway", GoalProgress{Current: 50, Target: 100}, 50},
		{"overshoot capped", GoalProgress{Current: 150, Target: 100}, 100},
		{"zero target", GoalProgress{Current: 10, Target: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.Percent(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Percent() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPaceForTarget(t *testing.T) {
	// halfway through a non-leap year, on pace means current = target/2
	asOf := time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
	g := GoalProgress{Current: 1013, Target: 2026}

	if diff := PaceForTarget(g, asOf); math.Abs(diff) > 10 {
		t.Errorf("on-pace diff = %v, want near 0", diff)
	}

	behind := GoalProgress{Current: 500, Target: 2026}
	if diff := PaceForTarget(behind, asOf); diff >= 0 {
		t.Errorf("behind-pace diff = %v, want negative", diff)
	}
}
