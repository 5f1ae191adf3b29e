package tui

import (
	"fmt"
	"strings"
	"time"

	"fitdash/internal/analysis"
	"fitdash/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// typeGlyphs marks activity types on calendar cells
var typeGlyphs = map[string]string{
	"running":  "R",
	"cycling":  "C",
	"strength": "S",
	"swimming": "W",
}

// CalendarModel is the monthly calendar screen model
type CalendarModel struct {
	queryService *service.QueryService
	year         int
	month        time.Month
	filterIdx    int
	weeks        [][]analysis.CalendarDay
	loading      bool
	err          error
}

// NewCalendarModel creates a calendar model showing the current month
func NewCalendarModel(qs *service.QueryService) CalendarModel {
	now := time.Now()
	return CalendarModel{
		queryService: qs,
		year:         now.Year(),
		month:        now.Month(),
		loading:      true,
	}
}

// Init initializes the calendar screen
func (m CalendarModel) Init() tea.Cmd {
	return m.loadMonth
}

type calendarLoadedMsg struct {
	weeks [][]analysis.CalendarDay
	err   error
}

func (m CalendarModel) loadMonth() tea.Msg {
	weeks, err := m.queryService.GetCalendarMonth(m.year, m.month, typeFilters[m.filterIdx])
	return calendarLoadedMsg{weeks: weeks, err: err}
}

// Update handles messages
func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.weeks = msg.weeks

	case tea.KeyMsg:
		switch msg.String() {
		case "h", "left":
			prev := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
			m.year, m.month = prev.Year(), prev.Month()
			m.loading = true
			return m, m.loadMonth
		case "l", "right":
			next := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
			m.year, m.month = next.Year(), next.Month()
			m.loading = true
			return m, m.loadMonth
		case "t":
			now := time.Now()
			m.year, m.month = now.Year(), now.Month()
			m.loading = true
			return m, m.loadMonth
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(typeFilters)
			m.loading = true
			return m, m.loadMonth
		case "r":
			m.loading = true
			return m, m.loadMonth
		}
	}
	return m, nil
}

// View renders the monthly calendar
func (m CalendarModel) View() string {
	if m.loading {
		return "\n  Loading calendar..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string

	heading := fmt.Sprintf("%s %d", m.month, m.year)
	if filter := typeFilters[m.filterIdx]; filter != "" {
		heading += fmt.Sprintf(" (%s only)", filter)
	}
	sections = append(sections, cardTitleStyle.Render(heading))

	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	var headerCells []string
	for _, name := range dayNames {
		headerCells = append(headerCells, tableHeaderStyle.Width(10).Render(name))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, headerCells...))

	today := time.Now()
	for _, week := range m.weeks {
		var cells []string
		for _, day := range week {
			cells = append(cells, m.renderDay(day, today))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	legend := statusStyle.Render("R run  C ride  S strength  W swim")
	sections = append(sections, legend)

	help := statusStyle.Render("h/l: prev/next month  t: today  f: filter type  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CalendarModel) renderDay(day analysis.CalendarDay, today time.Time) string {
	style := calendarDayStyle
	if !day.InMonth {
		style = calendarOutStyle
	} else if sameDay(day.Date, today) {
		style = calendarTodayStyle
	}

	top := fmt.Sprintf("%2d", day.Date.Day())
	if day.Load > 0 {
		top += fmt.Sprintf(" %3.0f", day.Load)
	}

	var glyphs []string
	for _, t := range day.Types {
		if g, ok := typeGlyphs[t]; ok {
			glyphs = append(glyphs, g)
		} else {
			glyphs = append(glyphs, "·")
		}
	}
	bottom := strings.Join(glyphs, " ")
	if day.Sessions > 1 {
		bottom += fmt.Sprintf(" x%d", day.Sessions)
	}

	return style.Render(top + "\n" + bottom)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
