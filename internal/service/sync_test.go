package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitdash/internal/garmin"
	"fitdash/internal/store"
)

func newSyncFixture(t *testing.T, handler http.HandlerFunc) (*SyncService, *store.DB) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	db := store.NewTestDB(t)
	client := garmin.NewClientWithBaseURL(server.Client(), server.URL)
	return NewSyncService(client, db), db
}

func garminActivityJSON(id int64, start time.Time, typeKey string, durationSec, avgHR float64) map[string]any {
	return map[string]any{
		"activityId":     id,
		"activityName":   "Morning Session",
		"activityType":   map[string]string{"typeKey": typeKey},
		"startTimeGMT":   start.Format("2006-01-02 15:04:05"),
		"startTimeLocal": start.Add(2 * time.Hour).Format("2006-01-02 15:04:05"),
		"duration":       durationSec,
		"distance":       8000,
		"averageHR":      avgHR,
	}
}

func TestSyncAll(t *testing.T) {
	now := time.Now().UTC()

	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/activitylist-service/"):
			if r.URL.Query().Get("start") != "0" {
				json.NewEncoder(w).Encode([]any{})
				return
			}
			json.NewEncoder(w).Encode([]map[string]any{
				garminActivityJSON(1, now.Add(-26*time.Hour), "treadmill_running", 2700, 150),
				garminActivityJSON(2, now.Add(-50*time.Hour), "strength_training", 2400, 0),
			})
		case strings.HasPrefix(r.URL.Path, "/usersummary-service/"):
			fmt.Fprint(w, `{"totalSteps": 9000, "restingHeartRate": 45, "averageStressLevel": 30,
				"bodyBatteryHighestValue": 90, "bodyBatteryLowestValue": 25}`)
		case strings.HasPrefix(r.URL.Path, "/wellness-service/"):
			fmt.Fprint(w, `{"dailySleepDTO": {"sleepTimeSeconds": 25200, "sleepScores": {"overall": {"value": 78}}}}`)
		case strings.HasPrefix(r.URL.Path, "/hrv-service/"):
			fmt.Fprint(w, `{"hrvSummary": {"lastNightAvg": 88}}`)
		case strings.HasPrefix(r.URL.Path, "/metrics-service/"):
			fmt.Fprint(w, `{"generic": {"vo2MaxValue": 51}}`)
		default:
			http.NotFound(w, r)
		}
	}

	svc, db := newSyncFixture(t, handler)

	// Pre-seed wellness so only the most recent days are fetched
	if err := db.UpsertWellness(&store.WellnessDay{Date: truncateDay(now)}); err != nil {
		t.Fatalf("seeding wellness: %v", err)
	}

	progress := make(chan SyncProgress, 100)
	result, err := svc.SyncAll(context.Background(), progress)
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	if result.ActivitiesFetched != 2 || result.ActivitiesStored != 2 {
		t.Errorf("activities fetched/stored = %d/%d, want 2/2",
			result.ActivitiesFetched, result.ActivitiesStored)
	}
	if result.WellnessDays < 1 {
		t.Errorf("wellness days = %d, want at least 1", result.WellnessDays)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected sync errors: %v", result.Errors)
	}

	// Progress channel was closed after reporting both phases
	phases := make(map[string]bool)
	for p := range progress {
		phases[p.Phase] = true
	}
	if !phases["activities"] || !phases["wellness"] {
		t.Errorf("progress phases = %v, want activities and wellness", phases)
	}

	// Activity types normalized on the way in
	a, err := db.GetActivity(1)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if a.Type != "running" {
		t.Errorf("type = %q, want normalized running", a.Type)
	}
	if a.DurationMin != 45 {
		t.Errorf("duration = %v min, want 45", a.DurationMin)
	}
	if a.AvgHR == nil || *a.AvgHR != 150 {
		t.Errorf("avg HR = %v, want 150", a.AvgHR)
	}

	// HR-less session stored with a null heart rate
	b, err := db.GetActivity(2)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if b.AvgHR != nil {
		t.Errorf("avg HR = %v, want nil for HR-less session", b.AvgHR)
	}

	// Sync times recorded
	lastAct, err := db.GetSyncTime(store.SyncKeyLastActivitySync)
	if err != nil || lastAct.IsZero() {
		t.Errorf("last activity sync = (%v, %v), want recorded", lastAct, err)
	}
	lastWell, err := db.GetSyncTime(store.SyncKeyLastWellnessSync)
	if err != nil || lastWell.IsZero() {
		t.Errorf("last wellness sync = (%v, %v), want recorded", lastWell, err)
	}

	// Wellness row carries the merged per-day endpoints
	days, err := db.ListWellnessSince(truncateDay(now))
	if err != nil || len(days) != 1 {
		t.Fatalf("wellness days = (%d, %v), want 1", len(days), err)
	}
	if days[0].Steps != 9000 || days[0].SleepScore != 78 || days[0].HRVms != 88 || days[0].VO2Max != 51 {
		t.Errorf("wellness day = %+v, want merged endpoint values", days[0])
	}
}

func TestSyncWellnessSurvivesBadDay(t *testing.T) {
	now := time.Now().UTC()

	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/activitylist-service/"):
			json.NewEncoder(w).Encode([]any{})
		case strings.HasPrefix(r.URL.Path, "/usersummary-service/"):
			if r.URL.Query().Get("calendarDate") == truncateDay(now).AddDate(0, 0, -1).Format("2006-01-02") {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"totalSteps": 5000}`)
		default:
			http.NotFound(w, r)
		}
	}

	svc, db := newSyncFixture(t, handler)

	// Only yesterday and today need fetching
	if err := db.UpsertWellness(&store.WellnessDay{Date: truncateDay(now).AddDate(0, 0, -1)}); err != nil {
		t.Fatalf("seeding wellness: %v", err)
	}

	result, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	if result.WellnessDays != 1 {
		t.Errorf("wellness days = %d, want 1 (today only)", result.WellnessDays)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want one for the failed day", result.Errors)
	}
}

func TestSyncCancelled(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]any{})
	}
	svc, _ := newSyncFixture(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SyncAll(ctx, nil)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
