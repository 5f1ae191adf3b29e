package tui

import (
	"fmt"
	"time"

	"fitdash/internal/analysis"
	"fitdash/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// WellnessModel is the daily wellness screen model
type WellnessModel struct {
	queryService *service.QueryService
	snapshot     *analysis.WellnessSnapshot
	days         []analysis.WellnessDay
	viewport     viewport.Model
	ready        bool
	loading      bool
	err          error
	width        int
	height       int
}

// NewWellnessModel creates a new wellness model
func NewWellnessModel(qs *service.QueryService, width, height int) WellnessModel {
	m := WellnessModel{
		queryService: qs,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-8)
		m.ready = true
	}

	return m
}

func (m *WellnessModel) setSize(width, height int) {
	m.width = width
	m.height = height
	if !m.ready {
		m.viewport = viewport.New(width, height-8)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height - 8
	}
	if m.snapshot != nil {
		m.viewport.SetContent(m.renderHistory())
	}
}

// Init initializes the wellness screen
func (m WellnessModel) Init() tea.Cmd {
	return m.loadData
}

type wellnessLoadedMsg struct {
	snapshot *analysis.WellnessSnapshot
	days     []analysis.WellnessDay
	err      error
}

func (m WellnessModel) loadData() tea.Msg {
	snapshot, days, err := m.queryService.GetWellnessSnapshot(time.Now())
	return wellnessLoadedMsg{snapshot: snapshot, days: days, err: err}
}

// Update handles messages
func (m WellnessModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wellnessLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.snapshot = msg.snapshot
		m.days = msg.days
		if m.ready {
			m.viewport.SetContent(m.renderHistory())
			m.viewport.GotoBottom()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the wellness screen
func (m WellnessModel) View() string {
	if m.loading {
		return "\n  Loading wellness data..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.snapshot == nil {
		return "\n  No wellness data yet. Press 's' to sync with Garmin Connect."
	}

	var sections []string
	sections = append(sections, m.renderSnapshotCard())

	if chart := m.renderCharts(); chart != "" {
		sections = append(sections, chart)
	}

	if m.ready {
		sections = append(sections, m.viewport.View())
	} else {
		sections = append(sections, m.renderHistory())
	}

	help := statusStyle.Render("j/k: scroll history  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m WellnessModel) renderSnapshotCard() string {
	title := cardTitleStyle.Render("Recovery Snapshot")

	s := m.snapshot
	lines := []string{
		RenderMetric("Resting HR", fmt.Sprintf("%.0f bpm", s.Latest.RestingHR), FormatDelta(s.RestingHRDelta)),
		RenderMetric("HRV", fmt.Sprintf("%.0f ms", s.Latest.HRVms), FormatDelta(s.HRVDelta)),
		RenderMetric("Sleep", fmt.Sprintf("%.1f h (score %.0f)", s.Latest.SleepHours, s.Latest.SleepScore), ""),
		RenderMetric("Stress", fmt.Sprintf("%.0f", s.Latest.StressAvg), ""),
		RenderMetric("Body Battery", fmt.Sprintf("%.0f / %.0f", s.Latest.BodyBatteryMin, s.Latest.BodyBatteryMax), ""),
	}

	if s.Latest.VO2Max > 0 {
		lines = append(lines, RenderMetric("VO2 Max", fmt.Sprintf("%.1f", s.Latest.VO2Max), ""))
	}

	lines = append(lines, "",
		statusStyle.Render(fmt.Sprintf("7-day: HR %.0f  HRV %.0f  sleep score %.0f  stress %.0f",
			s.RestingHRAvg7, s.HRVAvg7, s.SleepScoreAvg7, s.StressAvg7)))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderCharts plots recent sleep hours and daily steps side by side
func (m WellnessModel) renderCharts() string {
	var sleep, steps []float64
	for _, d := range m.days {
		if d.SleepHours > 0 {
			sleep = append(sleep, d.SleepHours)
		}
		if d.Steps > 0 {
			steps = append(steps, float64(d.Steps))
		}
	}

	var cards []string
	if len(sleep) >= 3 {
		graph := asciigraph.Plot(sleep,
			asciigraph.Height(6),
			asciigraph.Width(32),
			asciigraph.Precision(1),
		)
		title := cardTitleStyle.Render("Sleep Hours")
		cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph)))
	}
	if len(steps) >= 3 {
		graph := asciigraph.Plot(steps,
			asciigraph.Height(6),
			asciigraph.Width(32),
			asciigraph.Precision(0),
		)
		title := cardTitleStyle.Render("Daily Steps")
		cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph)))
	}

	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// renderHistory builds the daily table shown inside the viewport,
// oldest day first.
func (m WellnessModel) renderHistory() string {
	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %6s  %5s  %5s  %6s  %6s  %7s",
		"Date", "Steps", "RHR", "HRV", "Sleep", "Stress", "Battery"))

	rows := []string{header}
	for _, d := range m.days {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %6d  %5s  %5s  %6s  %6s  %7s",
			d.Date.Format("Jan 02"),
			d.Steps,
			orDash(d.RestingHR),
			orDash(d.HRVms),
			orDashHours(d.SleepHours),
			orDash(d.StressAvg),
			orDash(d.BodyBatteryMax),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// orDash formats a metric, showing "-" for unreported zero values
func orDash(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

func orDashHours(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fh", v)
}
