package analysis

import (
	"sort"
	"time"
)

// Lookback selects how far back the fitness chart reaches
type Lookback int

const (
	LookbackWeek Lookback = iota
	LookbackMonth
	Lookback3Months
	Lookback6Months
	LookbackYTD
	LookbackYear
)

// String returns the chart selector label
func (l Lookback) String() string {
	switch l {
	case LookbackWeek:
		return "7D"
	case LookbackMonth:
		return "30D"
	case Lookback3Months:
		return "3M"
	case Lookback6Months:
		return "6M"
	case LookbackYTD:
		return "YTD"
	default:
		return "1Y"
	}
}

// WindowStart returns the first day included by the lookback,
// relative to asOf.
func (l Lookback) WindowStart(asOf time.Time) time.Time {
	day := truncateDay(asOf)
	switch l {
	case LookbackWeek:
		return day.AddDate(0, 0, -6)
	case LookbackMonth:
		return day.AddDate(0, 0, -29)
	case Lookback3Months:
		return day.AddDate(0, -3, 0)
	case Lookback6Months:
		return day.AddDate(0, -6, 0)
	case LookbackYTD:
		return time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
	default:
		return day.AddDate(-1, 0, 0)
	}
}

// FilterMetrics returns the tail of an ascending metrics series that
// falls inside the lookback window. The full series must be smoothed
// first; windowing before smoothing would distort the averages.
func FilterMetrics(metrics []DayMetrics, l Lookback, asOf time.Time) []DayMetrics {
	start := l.WindowStart(asOf)
	for i, m := range metrics {
		if !m.Date.Before(start) {
			return metrics[i:]
		}
	}
	return nil
}

// WeekVolume is the aggregated training volume for one ISO-ish week
// starting on Monday.
type WeekVolume struct {
	WeekStart   time.Time
	DistanceKm  float64
	DurationMin float64
	Sessions    int
}

// WeeklyVolume groups activities into Monday-start weeks and returns
// the most recent `weeks` of them, oldest first. Weeks with no
// activity inside the span are present with zero volume.
func WeeklyVolume(activities []ActivitySummary, asOf time.Time, weeks int) []WeekVolume {
	if weeks <= 0 {
		return nil
	}

	currentWeek := weekStart(asOf)
	firstWeek := currentWeek.AddDate(0, 0, -7*(weeks-1))

	byWeek := make(map[string]*WeekVolume)
	for _, a := range activities {
		ws := weekStart(a.Date)
		if ws.Before(firstWeek) || ws.After(currentWeek) {
			continue
		}
		key := dayKey(ws)
		wv, ok := byWeek[key]
		if !ok {
			wv = &WeekVolume{WeekStart: ws}
			byWeek[key] = wv
		}
		wv.DistanceKm += a.DistanceKm
		wv.DurationMin += a.DurationMin
		wv.Sessions++
	}

	out := make([]WeekVolume, 0, weeks)
	for ws := firstWeek; !ws.After(currentWeek); ws = ws.AddDate(0, 0, 7) {
		if wv, ok := byWeek[dayKey(ws)]; ok {
			out = append(out, *wv)
		} else {
			out = append(out, WeekVolume{WeekStart: ws})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

// weekStart truncates to the Monday of t's week
func weekStart(t time.Time) time.Time {
	day := truncateDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
