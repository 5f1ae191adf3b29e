package analysis

import (
	"math"
	"testing"
	"time"
)

func TestSummarizeWellness(t *testing.T) {
	baseDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no days", func(t *testing.T) {
		if snap := SummarizeWellness(nil); snap != nil {
			t.Errorf("expected nil, got %+v", snap)
		}
	})

	t.Run("averages over the trailing week", func(t *testing.T) {
		days := make([]WellnessDay, 14)
		for i := range days {
			days[i] = WellnessDay{
				Date:      baseDate.AddDate(0, 0, i),
				RestingHR: 50, // older half, should be excluded
				HRVms:     80,
			}
		}
		for i := 7; i < 14; i++ {
			days[i].RestingHR = 44
			days[i].HRVms = 95
		}

		snap := SummarizeWellness(days)
		if snap == nil {
			t.Fatal("expected snapshot")
		}
		if math.Abs(snap.RestingHRAvg7-44) > 1e-9 {
			t.Errorf("RestingHRAvg7 = %v, want 44", snap.RestingHRAvg7)
		}
		if math.Abs(snap.HRVAvg7-95) > 1e-9 {
			t.Errorf("HRVAvg7 = %v, want 95", snap.HRVAvg7)
		}
	})

	t.Run("zero metrics excluded from averages", func(t *testing.T) {
		days := []WellnessDay{
			{Date: baseDate, RestingHR: 45, SleepScore: 80},
			{Date: baseDate.AddDate(0, 0, 1), RestingHR: 0, SleepScore: 0}, // watch not worn
			{Date: baseDate.AddDate(0, 0, 2), RestingHR: 47, SleepScore: 90},
		}

		snap := SummarizeWellness(days)
		if math.Abs(snap.RestingHRAvg7-46) > 1e-9 {
			t.Errorf("RestingHRAvg7 = %v, want 46 (zero day excluded)", snap.RestingHRAvg7)
		}
		if math.Abs(snap.SleepScoreAvg7-85) > 1e-9 {
			t.Errorf("SleepScoreAvg7 = %v, want 85", snap.SleepScoreAvg7)
		}
	})

	t.Run("deltas flag drift against the baseline", func(t *testing.T) {
		days := make([]WellnessDay, 8)
		for i := range days {
			days[i] = WellnessDay{
				Date:      baseDate.AddDate(0, 0, i),
				RestingHR: 45,
				HRVms:     90,
			}
		}
		days[7].RestingHR = 52 // elevated this morning
		days[7].HRVms = 70

		snap := SummarizeWellness(days)
		if snap.RestingHRDelta <= 0 {
			t.Errorf("RestingHRDelta = %v, want positive (elevated)", snap.RestingHRDelta)
		}
		if snap.HRVDelta >= 0 {
			t.Errorf("HRVDelta = %v, want negative (suppressed)", snap.HRVDelta)
		}
	})
}
