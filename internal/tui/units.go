package tui

import "fmt"

// FormatKm formats a distance in kilometers
func FormatKm(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// FormatDuration formats a duration in minutes as "3h 25m" or "45m"
func FormatDuration(minutes float64) string {
	total := int(minutes)
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatPace formats a running pace from duration and distance as
// "5:12/km"
func FormatPace(durationMin, distanceKm float64) string {
	if durationMin <= 0 || distanceKm <= 0 {
		return "-"
	}
	paceSeconds := durationMin * 60 / distanceKm
	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d/km", mins, secs)
}

// FormatDelta formats a signed change with an explicit plus sign so
// trend styling can pick up the direction.
func FormatDelta(delta float64) string {
	if delta == 0 {
		return ""
	}
	return fmt.Sprintf("%+.1f", delta)
}

// FormatForm renders form with its sign; positive form reads as
// freshness
func FormatForm(form float64) string {
	return fmt.Sprintf("%+.0f", form)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
