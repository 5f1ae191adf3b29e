package analysis

import "time"

// CalendarDay is one cell of the monthly activity grid
type CalendarDay struct {
	Date     time.Time
	InMonth  bool
	Load     float64
	Sessions int
	Types    []string
}

// CalendarMonth lays out a month as full Monday-to-Sunday weeks, with
// leading and trailing days of the adjacent months marked InMonth
// false. Loads come from the smoothed daily series so rest days show
// as zero rather than missing.
func CalendarMonth(activities []ActivitySummary, daily []DailyLoad, year int, month time.Month) [][]CalendarDay {
	loc := time.UTC
	if len(daily) > 0 {
		loc = daily[0].Date.Location()
	}

	loadByDay := make(map[string]float64, len(daily))
	for _, d := range daily {
		loadByDay[dayKey(d.Date)] = d.Load
	}

	type dayAgg struct {
		sessions int
		types    []string
	}
	actByDay := make(map[string]*dayAgg)
	for _, a := range activities {
		key := dayKey(a.Date)
		agg, ok := actByDay[key]
		if !ok {
			agg = &dayAgg{}
			actByDay[key] = agg
		}
		agg.sessions++
		agg.types = appendUnique(agg.types, NormalizeType(a.Type))
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	gridStart := weekStart(monthStart)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var weeks [][]CalendarDay
	for ws := gridStart; !ws.After(monthEnd); ws = ws.AddDate(0, 0, 7) {
		week := make([]CalendarDay, 7)
		for i := 0; i < 7; i++ {
			d := ws.AddDate(0, 0, i)
			key := dayKey(d)
			cell := CalendarDay{
				Date:    d,
				InMonth: d.Month() == month && d.Year() == year,
				Load:    loadByDay[key],
			}
			if agg, ok := actByDay[key]; ok {
				cell.Sessions = agg.sessions
				cell.Types = agg.types
			}
			week[i] = cell
		}
		weeks = append(weeks, week)
	}

	return weeks
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
