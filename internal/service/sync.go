package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"fitdash/internal/analysis"
	"fitdash/internal/garmin"
	"fitdash/internal/store"
)

// SyncService orchestrates pulling data from Garmin Connect
type SyncService struct {
	client *garmin.Client
	store  *store.DB
}

// NewSyncService creates a new sync service
func NewSyncService(client *garmin.Client, store *store.DB) *SyncService {
	return &SyncService{
		client: client,
		store:  store,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase      string // "activities", "wellness"
	Total      int
	Completed  int
	CurrentDay string
	Error      error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	WellnessDays      int
	Errors            []error
}

// SyncAll performs a full sync: activities, then daily wellness
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if err := s.syncWellness(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing wellness: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"fetched":  result.ActivitiesFetched,
		"stored":   result.ActivitiesStored,
		"wellness": result.WellnessDays,
		"errors":   len(result.Errors),
	}).Info("sync finished")

	return result, nil
}

// syncActivities pulls the activity list since the last sync
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	after, err := s.store.GetSyncTime(store.SyncKeyLastActivitySync)
	if err != nil {
		return fmt.Errorf("reading last sync time: %w", err)
	}

	// Re-fetch a small overlap so late edits on recent activities
	// are picked up
	if !after.IsZero() {
		after = after.AddDate(0, 0, -2)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "activities"}
	}

	activities, err := s.client.GetActivitiesSince(ctx, after, func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "activities", Total: fetched, Completed: fetched}
		}
	})
	if err != nil {
		return err
	}

	result.ActivitiesFetched = len(activities)

	for _, a := range activities {
		if err := s.store.UpsertActivity(convertActivity(a)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ActivityID, err))
			continue
		}
		result.ActivitiesStored++
	}

	if err := s.store.SetSyncTime(store.SyncKeyLastActivitySync, time.Now()); err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}

	return nil
}

// wellnessBackfillDays bounds the first wellness sync; daily metrics
// older than this have little effect on the trailing averages.
const wellnessBackfillDays = 90

// syncWellness pulls daily summaries, sleep, HRV and VO2max for each
// day since the last synced one. Individual day failures are recorded
// and skipped; one bad day must not abort the run.
func (s *SyncService) syncWellness(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	today := truncateDay(time.Now())

	from, err := s.store.LatestWellnessDate()
	if err != nil {
		return fmt.Errorf("reading latest wellness date: %w", err)
	}
	if from.IsZero() {
		from = today.AddDate(0, 0, -wellnessBackfillDays)
	}
	// Always re-fetch the latest stored day: its values keep moving
	// until midnight

	total := int(today.Sub(from).Hours()/24) + 1
	if progress != nil {
		progress <- SyncProgress{Phase: "wellness", Total: total}
	}

	completed := 0
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:      "wellness",
				Total:      total,
				Completed:  completed,
				CurrentDay: day.Format("2006-01-02"),
			}
		}

		w, err := s.fetchWellnessDay(ctx, day)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("wellness %s: %w", day.Format("2006-01-02"), err))
			completed++
			continue
		}

		if err := s.store.UpsertWellness(w); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing wellness %s: %w", day.Format("2006-01-02"), err))
			completed++
			continue
		}

		result.WellnessDays++
		completed++
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "wellness", Total: total, Completed: total}
	}

	return s.store.SetSyncTime(store.SyncKeyLastWellnessSync, time.Now())
}

// fetchWellnessDay combines the per-day endpoints into one row. The
// daily summary is required; sleep, HRV and VO2max are best effort
// since the watch does not report them every day.
func (s *SyncService) fetchWellnessDay(ctx context.Context, day time.Time) (*store.WellnessDay, error) {
	summary, err := s.client.GetDailySummary(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	w := &store.WellnessDay{
		Date:           day,
		Steps:          summary.TotalSteps,
		RestingHR:      summary.RestingHeartRate,
		StressAvg:      summary.AverageStressLevel,
		BodyBatteryMax: summary.BodyBatteryHighestValue,
		BodyBatteryMin: summary.BodyBatteryLowestValue,
	}

	if sleep, err := s.client.GetSleep(ctx, day); err == nil {
		w.SleepScore = sleep.Score()
		w.SleepHours = sleep.Hours()
	} else {
		logrus.WithError(err).WithField("day", day.Format("2006-01-02")).Debug("no sleep data")
	}

	if hrv, err := s.client.GetHRV(ctx, day); err == nil {
		w.HRVms = hrv.HRVSummary.LastNightAvg
	} else {
		logrus.WithError(err).WithField("day", day.Format("2006-01-02")).Debug("no hrv data")
	}

	if metrics, err := s.client.GetMaxMetrics(ctx, day); err == nil {
		w.VO2Max = metrics.Generic.VO2MaxValue
	} else {
		logrus.WithError(err).WithField("day", day.Format("2006-01-02")).Debug("no vo2max data")
	}

	return w, nil
}

// RateLimitRemaining reports the requests left in the client's window
func (s *SyncService) RateLimitRemaining() int {
	return s.client.RateLimitRemaining()
}

// convertActivity converts a Connect API activity to a store activity
func convertActivity(a garmin.Activity) *store.Activity {
	activity := &store.Activity{
		ID:             a.ActivityID,
		Name:           a.ActivityName,
		Type:           analysis.NormalizeType(a.ActivityType.TypeKey),
		StartTime:      a.StartTimeGMT.Time,
		StartTimeLocal: a.StartTimeLocal.Time,
		DurationMin:    a.Duration / 60,
		DistanceKm:     a.Distance / 1000,
	}

	// Local timestamps are missing on some manual entries
	if activity.StartTimeLocal.IsZero() {
		activity.StartTimeLocal = activity.StartTime
	}

	if a.AverageHR > 0 {
		activity.AvgHR = &a.AverageHR
	}
	if a.MaxHR > 0 {
		activity.MaxHR = &a.MaxHR
	}
	if a.Calories > 0 {
		activity.Calories = &a.Calories
	}
	if a.ElevationGain > 0 {
		activity.ElevationGain = &a.ElevationGain
	}
	if a.AverageSpeed > 0 {
		activity.AvgSpeed = &a.AverageSpeed
	}

	return activity
}

// truncateDay drops the time-of-day component
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
