package service

import (
	"fmt"
	"time"

	"fitdash/internal/analysis"
	"fitdash/internal/config"
	"fitdash/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store   *store.DB
	profile analysis.Profile
	goals   analysis.YearGoals
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, cfg *config.Config) *QueryService {
	profile := analysis.DefaultProfile()
	if cfg != nil && cfg.Athlete.RestingHR > 0 && cfg.Athlete.MaxHR > 0 {
		profile = analysis.Profile{
			RestingHR: cfg.Athlete.RestingHR,
			MaxHR:     cfg.Athlete.MaxHR,
		}
	}

	goals := analysis.DefaultGoals()
	if cfg != nil {
		if cfg.Goals.RunningKm > 0 {
			goals.RunningKm = cfg.Goals.RunningKm
		}
		if cfg.Goals.HalfMarathons > 0 {
			goals.HalfMarathons = cfg.Goals.HalfMarathons
		}
		if cfg.Goals.StrengthCount > 0 {
			goals.StrengthCount = cfg.Goals.StrengthCount
		}
		if cfg.Goals.ActiveDays > 0 {
			goals.ActiveDays = cfg.Goals.ActiveDays
		}
	}

	return &QueryService{
		store:   db,
		profile: profile,
		goals:   goals,
	}
}

// Profile exposes the configured athlete profile
func (s *QueryService) Profile() analysis.Profile {
	return s.profile
}

// TrainingStatus is everything the dashboard's status card and chart
// need in one call.
type TrainingStatus struct {
	Snapshot *analysis.Snapshot
	Metrics  []analysis.DayMetrics // full smoothed history, ascending
}

// GetTrainingStatus runs the load pipeline over the stored history.
// Returns analysis.ErrNoData when nothing has been synced yet.
func (s *QueryService) GetTrainingStatus(asOf time.Time) (*TrainingStatus, error) {
	since := asOf.AddDate(0, 0, -HistoryDays)
	activities, err := s.store.ListActivitiesSince(since)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	records := make([]analysis.WorkoutRecord, 0, len(activities))
	for _, a := range activities {
		records = append(records, toWorkoutRecord(a))
	}

	daily, err := analysis.BuildDailySeries(records, asOf, s.profile)
	if err != nil {
		return nil, err
	}

	metrics := analysis.ApplyPhysiology(daily)
	latest := metrics[len(metrics)-1]
	ratio, status := analysis.ClassifyStatus(latest.Fitness, latest.Fatigue)

	return &TrainingStatus{
		Snapshot: &analysis.Snapshot{Latest: latest, Ratio: ratio, Status: status},
		Metrics:  metrics,
	}, nil
}

// GetGoalProgress evaluates the configured yearly goals
func (s *QueryService) GetGoalProgress(asOf time.Time) ([]analysis.GoalProgress, error) {
	yearStart := time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, asOf.Location())
	activities, err := s.store.ListActivitiesSince(yearStart)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	summaries := make([]analysis.ActivitySummary, 0, len(activities))
	for _, a := range activities {
		summaries = append(summaries, toActivitySummary(a))
	}

	return analysis.ComputeGoalProgress(summaries, asOf.Year(), s.goals), nil
}

// GetVolumeTrend returns the recent weekly training volume,
// optionally restricted to one normalized activity type.
func (s *QueryService) GetVolumeTrend(asOf time.Time, weeks int, activityType string) ([]analysis.WeekVolume, error) {
	if weeks <= 0 {
		weeks = ChartWeeks
	}

	since := asOf.AddDate(0, 0, -7*weeks)
	activities, err := s.store.ListActivitiesSince(since)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	summaries := make([]analysis.ActivitySummary, 0, len(activities))
	for _, a := range activities {
		if activityType != "" && analysis.NormalizeType(a.Type) != activityType {
			continue
		}
		summaries = append(summaries, toActivitySummary(a))
	}

	return analysis.WeeklyVolume(summaries, asOf, weeks), nil
}

// GetActivityFeed returns a page of activities, optionally filtered
// by normalized type. An empty type returns everything.
func (s *QueryService) GetActivityFeed(activityType string, page int) ([]store.Activity, error) {
	if page < 0 {
		page = 0
	}
	if activityType == "" {
		return s.store.ListActivities(FeedPageSize, page*FeedPageSize)
	}

	// Type filter paginates in memory; the feed is bounded anyway
	all, err := s.store.ListActivitiesByType(activityType, FeedActivityLimit)
	if err != nil {
		return nil, err
	}

	start := page * FeedPageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + FeedPageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// GetCalendarMonth builds the monthly activity grid. A non-empty
// activityType restricts both the session markers and the loads to
// that type.
func (s *QueryService) GetCalendarMonth(year int, month time.Month, activityType string) ([][]analysis.CalendarDay, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// include the leading out-of-month days of the grid
	gridStart := monthStart.AddDate(0, 0, -7)

	activities, err := s.store.ListActivitiesSince(gridStart)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	summaries := make([]analysis.ActivitySummary, 0, len(activities))
	records := make([]analysis.WorkoutRecord, 0, len(activities))
	for _, a := range activities {
		if activityType != "" && analysis.NormalizeType(a.Type) != activityType {
			continue
		}
		summaries = append(summaries, toActivitySummary(a))
		records = append(records, toWorkoutRecord(a))
	}

	monthEnd := monthStart.AddDate(0, 1, -1)
	var daily []analysis.DailyLoad
	if len(records) > 0 {
		daily, err = analysis.BuildDailySeries(records, monthEnd, s.profile)
		if err != nil {
			return nil, err
		}
	}

	return analysis.CalendarMonth(summaries, daily, year, month), nil
}

// GetWellnessSnapshot summarizes the recent wellness days
func (s *QueryService) GetWellnessSnapshot(asOf time.Time) (*analysis.WellnessSnapshot, []analysis.WellnessDay, error) {
	since := asOf.AddDate(0, 0, -WellnessWindowDays)
	stored, err := s.store.ListWellnessSince(since)
	if err != nil {
		return nil, nil, fmt.Errorf("loading wellness: %w", err)
	}

	days := make([]analysis.WellnessDay, 0, len(stored))
	for _, w := range stored {
		days = append(days, analysis.WellnessDay{
			Date:           w.Date,
			Steps:          w.Steps,
			RestingHR:      w.RestingHR,
			StressAvg:      w.StressAvg,
			BodyBatteryMax: w.BodyBatteryMax,
			BodyBatteryMin: w.BodyBatteryMin,
			SleepScore:     w.SleepScore,
			SleepHours:     w.SleepHours,
			HRVms:          w.HRVms,
			VO2Max:         w.VO2Max,
		})
	}

	return analysis.SummarizeWellness(days), days, nil
}

// CountActivities reports how many activities are stored
func (s *QueryService) CountActivities() (int, error) {
	return s.store.CountActivities()
}

// LastSyncTimes returns when activities and wellness were last synced
func (s *QueryService) LastSyncTimes() (activities, wellness time.Time, err error) {
	activities, err = s.store.GetSyncTime(store.SyncKeyLastActivitySync)
	if err != nil {
		return
	}
	wellness, err = s.store.GetSyncTime(store.SyncKeyLastWellnessSync)
	return
}

// toWorkoutRecord maps a stored activity onto the load model's input.
// A missing heart rate becomes the zero sentinel, which the model
// treats as zero load.
func toWorkoutRecord(a store.Activity) analysis.WorkoutRecord {
	r := analysis.WorkoutRecord{
		Date:        a.StartTimeLocal,
		DurationMin: a.DurationMin,
	}
	if a.AvgHR != nil {
		r.AvgHR = *a.AvgHR
	}
	return r
}

func toActivitySummary(a store.Activity) analysis.ActivitySummary {
	s := analysis.ActivitySummary{
		Date:        a.StartTimeLocal,
		Type:        a.Type,
		DistanceKm:  a.DistanceKm,
		DurationMin: a.DurationMin,
	}
	if a.AvgHR != nil {
		s.AvgHR = *a.AvgHR
	}
	return s
}
