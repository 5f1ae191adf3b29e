package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fitdash/internal/analysis"
	"fitdash/internal/store"
)

func testPromptData() PromptData {
	return PromptData{
		Snapshot: &analysis.Snapshot{
			Latest: analysis.DayMetrics{Fitness: 60, Fatigue: 70, Form: -10},
			Ratio:  1.17,
			Status: analysis.StatusOptimal,
		},
	}
}

func TestAdviseDisabled(t *testing.T) {
	db := store.NewTestDB(t)
	c := New(db, "", "gemini-2.0-flash", time.Hour)

	if c.Enabled() {
		t.Error("coach without key should be disabled")
	}
	_, err := c.Advise(context.Background(), testPromptData())
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("error = %v, want ErrDisabled", err)
	}
}

func TestAdviseCallsModelAndCaches(t *testing.T) {
	db := store.NewTestDB(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		fmt.Fprint(w, `{"candidates": [{"content": {"parts": [{"text": "Take an easy day."}]}}]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL(db, "test-key", "gemini-2.0-flash", server.URL, time.Hour)

	advice, err := c.Advise(context.Background(), testPromptData())
	if err != nil {
		t.Fatalf("Advise failed: %v", err)
	}
	if advice != "Take an easy day." {
		t.Errorf("advice = %q", advice)
	}

	// Same metrics again: served from cache, no second call
	advice, err = c.Advise(context.Background(), testPromptData())
	if err != nil {
		t.Fatalf("second Advise failed: %v", err)
	}
	if advice != "Take an easy day." {
		t.Errorf("cached advice = %q", advice)
	}
	if calls.Load() != 1 {
		t.Errorf("model calls = %d, want 1 (second should hit cache)", calls.Load())
	}
}

func TestAdviseCacheInvalidatedByNewMetrics(t *testing.T) {
	db := store.NewTestDB(t)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"candidates": [{"content": {"parts": [{"text": "advice %d"}]}}]}`, calls.Load())
	}))
	defer server.Close()

	c := NewWithBaseURL(db, "test-key", "gemini-2.0-flash", server.URL, time.Hour)

	if _, err := c.Advise(context.Background(), testPromptData()); err != nil {
		t.Fatalf("Advise failed: %v", err)
	}

	changed := testPromptData()
	changed.Snapshot.Latest.Fatigue = 95
	changed.Snapshot.Status = analysis.StatusOverreach

	advice, err := c.Advise(context.Background(), changed)
	if err != nil {
		t.Fatalf("Advise with new metrics failed: %v", err)
	}
	if advice != "advice 2" {
		t.Errorf("advice = %q, want fresh call for changed metrics", advice)
	}
	if calls.Load() != 2 {
		t.Errorf("model calls = %d, want 2", calls.Load())
	}
}

func TestAdviseModelFallback(t *testing.T) {
	db := store.NewTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "gemini-2.0-flash:") {
			http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"candidates": [{"content": {"parts": [{"text": "fallback advice"}]}}]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL(db, "test-key", "gemini-2.0-flash", server.URL, time.Hour)

	advice, err := c.Advise(context.Background(), testPromptData())
	if err != nil {
		t.Fatalf("Advise failed: %v", err)
	}
	if advice != "fallback advice" {
		t.Errorf("advice = %q, want fallback model response", advice)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	data := PromptData{
		Snapshot: &analysis.Snapshot{
			Latest: analysis.DayMetrics{Fitness: 55.5, Fatigue: 60.1, Form: -4.6},
			Ratio:  1.08,
			Status: analysis.StatusOptimal,
		},
		Weeks: []analysis.WeekVolume{
			{WeekStart: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), DistanceKm: 42, DurationMin: 230, Sessions: 5},
		},
		Goals: []analysis.GoalProgress{
			{Name: "Running distance", Unit: "km", Current: 1400, Target: 2026},
		},
	}

	a := BuildPrompt(data)
	b := BuildPrompt(data)
	if a != b {
		t.Error("prompt must be deterministic for identical data")
	}
	if !strings.Contains(a, "Optimal") || !strings.Contains(a, "42.0 km") {
		t.Errorf("prompt missing expected content:\n%s", a)
	}
}
