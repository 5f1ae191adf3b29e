package analysis

import (
	"testing"
	"time"
)

func TestCalendarMonth(t *testing.T) {
	// June 2026: starts on a Monday, 30 days
	activities := []ActivitySummary{
		{Date: time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC), Type: "running", DistanceKm: 10},
		{Date: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), Type: "strength_training"},
		{Date: time.Date(2026, 6, 15, 7, 0, 0, 0, time.UTC), Type: "treadmill_running", DistanceKm: 8},
	}
	daily := []DailyLoad{
		{Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), Load: 80},
		{Date: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), Load: 45},
	}

	weeks := CalendarMonth(activities, daily, 2026, time.June)
	if len(weeks) != 5 {
		t.Fatalf("June 2026 should span 5 grid weeks, got %d", len(weeks))
	}

	first := weeks[0][0]
	if !first.InMonth {
		t.Error("June 1 falls on a Monday, first cell should be in month")
	}
	if first.Sessions != 2 {
		t.Errorf("June 1 sessions = %d, want 2", first.Sessions)
	}
	if first.Load != 80 {
		t.Errorf("June 1 load = %v, want 80", first.Load)
	}
	if len(first.Types) != 2 {
		t.Errorf("June 1 types = %v, want running and strength", first.Types)
	}

	// June 15 is a Monday in week 3
	mid := weeks[2][0]
	if mid.Load != 45 || mid.Sessions != 1 {
		t.Errorf("June 15 cell = %+v, want load 45 with 1 session", mid)
	}
	if len(mid.Types) != 1 || mid.Types[0] != "running" {
		t.Errorf("June 15 types = %v, want [running] (treadmill normalized)", mid.Types)
	}

	// trailing cells belong to July
	last := weeks[4][6]
	if last.InMonth {
		t.Errorf("cell %v should be outside June", last.Date)
	}
}

func TestCalendarMonthLeadingDays(t *testing.T) {
	// August 2026 starts on a Saturday, so the first grid week has
	// five July days
	weeks := CalendarMonth(nil, nil, 2026, time.August)

	var leading int
	for _, cell := range weeks[0] {
		if !cell.InMonth {
			leading++
		}
	}
	if leading != 5 {
		t.Errorf("August 2026 leading out-of-month cells = %d, want 5", leading)
	}
}
