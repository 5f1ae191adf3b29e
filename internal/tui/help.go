package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Activity feed"},
		{"3", "Yearly goals"},
		{"4", "Calendar"},
		{"5", "Wellness"},
		{"6 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	dashSection := m.renderSection("Dashboard", []keyHelp{
		{"h / l", "Shorter / longer chart window"},
		{"c", "Ask the coach for advice"},
		{"r", "Refresh data"},
	})
	sections = append(sections, dashSection)

	feedSection := m.renderSection("Activity Feed", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"pgdn / pgup", "Next / previous page"},
		{"f", "Cycle activity type filter"},
		{"r", "Refresh list"},
	})
	sections = append(sections, feedSection)

	calSection := m.renderSection("Calendar", []keyHelp{
		{"h / l", "Previous / next month"},
		{"t", "Jump to current month"},
		{"f", "Cycle activity type filter"},
	})
	sections = append(sections, calSection)

	syncSection := m.renderSection("Sync Screen", []keyHelp{
		{"s / enter", "Start sync"},
	})
	sections = append(sections, syncSection)

	sections = append(sections, m.renderMetricsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"Load (TRIMP)", "Training impulse - combines duration and heart rate intensity."},
		{"Fitness", "Long-term load average (42 days). Builds slowly, fades slowly."},
		{"Fatigue", "Short-term load average (7 days). Reacts within a week."},
		{"Form", "Fitness minus fatigue. Positive = fresh, negative = loaded."},
		{"Load Ratio", "Fatigue over fitness. 0.8-1.3 is the productive band."},
		{"HRV", "Heart rate variability overnight. Drops can signal poor recovery."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
