package tui

import (
	"fmt"
	"time"

	"fitdash/internal/analysis"
	"fitdash/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GoalsModel is the yearly goals screen model
type GoalsModel struct {
	queryService *service.QueryService
	goals        []analysis.GoalProgress
	weeks        []analysis.WeekVolume
	loading      bool
	err          error
}

// NewGoalsModel creates a new goals model
func NewGoalsModel(qs *service.QueryService) GoalsModel {
	return GoalsModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the goals screen
func (m GoalsModel) Init() tea.Cmd {
	return m.loadGoals
}

type goalsLoadedMsg struct {
	goals []analysis.GoalProgress
	weeks []analysis.WeekVolume
	err   error
}

func (m GoalsModel) loadGoals() tea.Msg {
	now := time.Now()

	goals, err := m.queryService.GetGoalProgress(now)
	if err != nil {
		return goalsLoadedMsg{err: err}
	}

	weeks, err := m.queryService.GetVolumeTrend(now, service.ChartWeeks, "")
	if err != nil {
		return goalsLoadedMsg{err: err}
	}

	return goalsLoadedMsg{goals: goals, weeks: weeks}
}

// Update handles messages
func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case goalsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.goals = msg.goals
		m.weeks = msg.weeks

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadGoals
		}
	}
	return m, nil
}

// View renders the goals screen
func (m GoalsModel) View() string {
	if m.loading {
		return "\n  Loading goals..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string

	sections = append(sections, m.renderGoalsCard())
	if len(m.weeks) > 0 {
		sections = append(sections, m.renderVolumeCard())
	}

	help := statusStyle.Render("Press 'r' to refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m GoalsModel) renderGoalsCard() string {
	now := time.Now()
	title := cardTitleStyle.Render(fmt.Sprintf("%d Goals", now.Year()))

	var lines []string
	for _, g := range m.goals {
		label := fmt.Sprintf("%-18s %7.1f / %.0f %s", g.Name, g.Current, g.Target, g.Unit)
		bar := RenderProgressBar(g.Percent(), 30)
		pct := fmt.Sprintf("%5.1f%%", g.Percent())

		pace := analysis.PaceForTarget(g, now)
		var paceStr string
		if pace >= 0 {
			paceStr = trendUpStyle.Render(fmt.Sprintf("  %+.1f %s ahead of pace", pace, g.Unit))
		} else {
			paceStr = trendDownStyle.Render(fmt.Sprintf("  %.1f %s behind pace", pace, g.Unit))
		}

		lines = append(lines, metricValueStyle.Render(label))
		lines = append(lines, bar+"  "+pct+paceStr)
		lines = append(lines, "")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderVolumeCard shows the recent weekly distance as a simple bar
// list, most recent week last.
func (m GoalsModel) renderVolumeCard() string {
	title := cardTitleStyle.Render("Weekly Volume")

	maxKm := 0.0
	for _, w := range m.weeks {
		if w.DistanceKm > maxKm {
			maxKm = w.DistanceKm
		}
	}
	if maxKm <= 0 {
		maxKm = 1
	}

	var lines []string
	for _, w := range m.weeks {
		bar := RenderProgressBar(w.DistanceKm/maxKm*100, 24)
		lines = append(lines, fmt.Sprintf("%s  %s %6.1f km  %d sessions",
			w.WeekStart.Format("Jan 02"), bar, w.DistanceKm, w.Sessions))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
