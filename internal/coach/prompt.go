package coach

import (
	"fmt"
	"strings"

	"fitdash/internal/analysis"
)

// PromptData is everything the coach sees about the athlete
type PromptData struct {
	Snapshot *analysis.Snapshot
	Weeks    []analysis.WeekVolume
	Wellness *analysis.WellnessSnapshot
	Goals    []analysis.GoalProgress
}

// BuildPrompt renders the metrics into the instruction the model
// receives. Keep it deterministic: the prompt doubles as the cache
// key, so identical metrics must produce identical text.
func BuildPrompt(data PromptData) string {
	var b strings.Builder

	b.WriteString("You are a concise endurance coach. Based on the data below, give 2-3 short, specific recommendations for the next few days of training. No preamble, no bullet-point headers, maximum 80 words.\n\n")

	if s := data.Snapshot; s != nil {
		fmt.Fprintf(&b, "Training status: %s (fatigue/fitness ratio %.2f)\n", s.Status, s.Ratio)
		fmt.Fprintf(&b, "Fitness %.1f, fatigue %.1f, form %.1f\n", s.Latest.Fitness, s.Latest.Fatigue, s.Latest.Form)
	}

	if len(data.Weeks) > 0 {
		b.WriteString("Recent weekly volume (oldest first):\n")
		for _, w := range data.Weeks {
			fmt.Fprintf(&b, "  week of %s: %.1f km, %.0f min, %d sessions\n",
				w.WeekStart.Format("Jan 2"), w.DistanceKm, w.DurationMin, w.Sessions)
		}
	}

	if w := data.Wellness; w != nil {
		fmt.Fprintf(&b, "Wellness: resting HR %.0f (7d avg %.0f), HRV %.0f ms (7d avg %.0f), sleep score %.0f, stress %.0f\n",
			w.Latest.RestingHR, w.RestingHRAvg7, w.Latest.HRVms, w.HRVAvg7, w.Latest.SleepScore, w.Latest.StressAvg)
	}

	if len(data.Goals) > 0 {
		b.WriteString("Yearly goals:\n")
		for _, g := range data.Goals {
			fmt.Fprintf(&b, "  %s: %.1f of %.0f %s (%.0f%%)\n",
				g.Name, g.Current, g.Target, g.Unit, g.Percent())
		}
	}

	return b.String()
}
