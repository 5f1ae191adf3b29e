package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitdash/internal/analysis"
	"fitdash/internal/coach"
	"fitdash/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	adviser      *coach.Coach

	status   *service.TrainingStatus
	weeks    []analysis.WeekVolume
	wellness *analysis.WellnessSnapshot
	goals    []analysis.GoalProgress

	lookback analysis.Lookback

	advice        string
	adviceErr     error
	adviceLoading bool

	loading bool
	err     error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, adviser *coach.Coach) DashboardModel {
	return DashboardModel{
		queryService: qs,
		adviser:      adviser,
		lookback:     analysis.Lookback3Months,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

type dashboardDataMsg struct {
	status   *service.TrainingStatus
	weeks    []analysis.WeekVolume
	wellness *analysis.WellnessSnapshot
	goals    []analysis.GoalProgress
	err      error
}

func (m DashboardModel) loadData() tea.Msg {
	now := time.Now()

	status, err := m.queryService.GetTrainingStatus(now)
	if err != nil && !errors.Is(err, analysis.ErrNoData) {
		return dashboardDataMsg{err: err}
	}

	weeks, err := m.queryService.GetVolumeTrend(now, service.ChartWeeks, "")
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	wellness, _, err := m.queryService.GetWellnessSnapshot(now)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	goals, err := m.queryService.GetGoalProgress(now)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	return dashboardDataMsg{status: status, weeks: weeks, wellness: wellness, goals: goals}
}

type adviceMsg struct {
	text string
	err  error
}

func (m DashboardModel) requestAdvice() tea.Cmd {
	data := coach.PromptData{
		Weeks:    m.weeks,
		Wellness: m.wellness,
		Goals:    m.goals,
	}
	if m.status != nil {
		data.Snapshot = m.status.Snapshot
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		text, err := m.adviser.Advise(ctx, data)
		return adviceMsg{text: text, err: err}
	}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.status = msg.status
		m.weeks = msg.weeks
		m.wellness = msg.wellness
		m.goals = msg.goals

	case adviceMsg:
		m.adviceLoading = false
		m.advice = msg.text
		m.adviceErr = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "h", "left":
			if m.lookback > analysis.LookbackWeek {
				m.lookback--
			}
		case "l", "right":
			if m.lookback < analysis.LookbackYear {
				m.lookback++
			}
		case "c":
			if m.adviser.Enabled() && !m.adviceLoading && m.status != nil {
				m.adviceLoading = true
				m.adviceErr = nil
				return m, m.requestAdvice()
			}
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.status == nil {
		return "\n  No activities yet. Press 's' to sync with Garmin Connect."
	}

	var sections []string

	// Top row: training status and this week side by side
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderStatusCard(), "  ", m.renderWeekCard())
	sections = append(sections, topRow)

	if chart := m.renderLoadChart(); chart != "" {
		sections = append(sections, chart)
	}

	if m.adviser.Enabled() {
		sections = append(sections, m.renderCoachCard())
	}

	help := statusStyle.Render("Press 'r' to refresh, 'h'/'l' to change window, 'c' to ask the coach")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStatusCard() string {
	title := cardTitleStyle.Render("Training Status")

	snap := m.status.Snapshot
	badge := statusStyleFor(snap.Status).Bold(true).Render(snap.Status.String())

	lines := []string{
		RenderMetric("Status", badge, ""),
		RenderMetric("Load Ratio", fmt.Sprintf("%.2f", snap.Ratio), ""),
		RenderMetric("Fitness", fmt.Sprintf("%.0f", snap.Latest.Fitness), ""),
		RenderMetric("Fatigue", fmt.Sprintf("%.0f", snap.Latest.Fatigue), ""),
		RenderMetric("Form", FormatForm(snap.Latest.Form), ""),
		"",
		m.renderRatioBar(snap.Ratio),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderRatioBar draws the fatigue/fitness ratio on a fixed scale so
// the optimal band is always in the same place on screen.
func (m DashboardModel) renderRatioBar(ratio float64) string {
	const width = 30
	const maxRatio = 2.0

	pos := int(ratio / maxRatio * float64(width))
	if pos >= width {
		pos = width - 1
	}
	if pos < 0 {
		pos = 0
	}

	bar := ""
	for i := 0; i < width; i++ {
		lo := float64(i) / float64(width) * maxRatio
		cell := "·"
		if i == pos {
			cell = "█"
		}

		switch {
		case lo >= 1.5:
			bar += errorStyle.Render(cell)
		case lo >= 1.3:
			bar += warningStyle.Render(cell)
		case lo >= 0.8:
			bar += successStyle.Render(cell)
		default:
			bar += trendFlatStyle.Render(cell)
		}
	}
	return bar
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("This Week")

	var week analysis.WeekVolume
	if len(m.weeks) > 0 {
		week = m.weeks[len(m.weeks)-1]
	}

	lines := []string{
		RenderMetric("Sessions", fmt.Sprintf("%d", week.Sessions), ""),
		RenderMetric("Distance", FormatKm(week.DistanceKm), ""),
		RenderMetric("Time", FormatDuration(week.DurationMin), ""),
	}

	if m.wellness != nil {
		lines = append(lines,
			RenderMetric("Resting HR", fmt.Sprintf("%.0f", m.wellness.Latest.RestingHR), FormatDelta(m.wellness.RestingHRDelta)),
			RenderMetric("HRV", fmt.Sprintf("%.0f ms", m.wellness.Latest.HRVms), FormatDelta(m.wellness.HRVDelta)),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderLoadChart() string {
	window := analysis.FilterMetrics(m.status.Metrics, m.lookback, time.Now())
	if len(window) < 3 {
		return ""
	}

	fitness := make([]float64, len(window))
	fatigue := make([]float64, len(window))
	form := make([]float64, len(window))
	for i, d := range window {
		fitness[i] = d.Fitness
		fatigue[i] = d.Fatigue
		form[i] = d.Form
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Load Trend (%s)", m.lookback))

	graph := asciigraph.PlotMany(
		[][]float64{fitness, fatigue, form},
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
	)

	legend := lipgloss.JoinHorizontal(lipgloss.Left,
		trendFlatStyle.Render("─ "),
		lipgloss.NewStyle().Foreground(primaryColor).Render("Fitness  "),
		errorStyle.Render("Fatigue  "),
		successStyle.Render("Form"),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, legend))
}

func (m DashboardModel) renderCoachCard() string {
	title := cardTitleStyle.Render("Coach")

	var body string
	switch {
	case m.adviceLoading:
		body = statusStyle.Render("Thinking...")
	case m.adviceErr != nil:
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.adviceErr))
	case m.advice != "":
		body = lipgloss.NewStyle().Width(70).Render(m.advice)
	default:
		body = statusStyle.Render("Press 'c' for training advice")
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
