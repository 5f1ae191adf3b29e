package analysis

import "time"

// WellnessDay is one day of daily-summary metrics from the watch.
// Zero values mean the metric was not reported that day.
type WellnessDay struct {
	Date           time.Time
	Steps          int
	RestingHR      float64
	StressAvg      float64
	BodyBatteryMax float64
	BodyBatteryMin float64
	SleepScore     float64
	SleepHours     float64
	HRVms          float64
	VO2Max         float64
}

// WellnessSnapshot compares the latest day against a trailing
// baseline so the dashboard can flag drift (rising resting HR,
// falling HRV) alongside the training load status.
type WellnessSnapshot struct {
	Latest         WellnessDay
	RestingHRAvg7  float64
	HRVAvg7        float64
	SleepScoreAvg7 float64
	StressAvg7     float64
	RestingHRDelta float64
	HRVDelta       float64
}

// SummarizeWellness builds the snapshot from an ascending daily
// series. Days with a zero metric are excluded from that metric's
// average rather than dragging it down. Returns nil if there are no
// days at all.
func SummarizeWellness(days []WellnessDay) *WellnessSnapshot {
	if len(days) == 0 {
		return nil
	}

	latest := days[len(days)-1]
	window := days
	if len(window) > 7 {
		window = window[len(window)-7:]
	}

	snap := &WellnessSnapshot{
		Latest:         latest,
		RestingHRAvg7:  meanNonzero(window, func(d WellnessDay) float64 { return d.RestingHR }),
		HRVAvg7:        meanNonzero(window, func(d WellnessDay) float64 { return d.HRVms }),
		SleepScoreAvg7: meanNonzero(window, func(d WellnessDay) float64 { return d.SleepScore }),
		StressAvg7:     meanNonzero(window, func(d WellnessDay) float64 { return d.StressAvg }),
	}

	if latest.RestingHR > 0 && snap.RestingHRAvg7 > 0 {
		snap.RestingHRDelta = latest.RestingHR - snap.RestingHRAvg7
	}
	if latest.HRVms > 0 && snap.HRVAvg7 > 0 {
		snap.HRVDelta = latest.HRVms - snap.HRVAvg7
	}

	return snap
}

func meanNonzero(days []WellnessDay, get func(WellnessDay) float64) float64 {
	var sum float64
	var n int
	for _, d := range days {
		if v := get(d); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
