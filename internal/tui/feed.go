package tui

import (
	"fmt"

	"fitdash/internal/service"
	"fitdash/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// typeFilters cycles through the normalized activity types shown on
// the feed screen. Empty string means no filter.
var typeFilters = []string{"", "running", "cycling", "strength", "swimming"}

// FeedModel is the activity feed screen model
type FeedModel struct {
	queryService *service.QueryService
	activities   []store.Activity
	cursor       int
	page         int
	filterIdx    int
	total        int
	loading      bool
	err          error
}

// NewFeedModel creates a new feed model
func NewFeedModel(qs *service.QueryService) FeedModel {
	return FeedModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the feed screen
func (m FeedModel) Init() tea.Cmd {
	return m.loadPage
}

type feedLoadedMsg struct {
	activities []store.Activity
	total      int
	err        error
}

func (m FeedModel) loadPage() tea.Msg {
	activities, err := m.queryService.GetActivityFeed(typeFilters[m.filterIdx], m.page)
	if err != nil {
		return feedLoadedMsg{err: err}
	}

	total, err := m.queryService.CountActivities()
	if err != nil {
		return feedLoadedMsg{err: err}
	}

	return feedLoadedMsg{activities: activities, total: total}
}

// Update handles messages
func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.activities = msg.activities
		m.total = msg.total

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.page > 0 {
				// Go to previous page
				m.page--
				m.cursor = service.FeedPageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			} else if len(m.activities) == service.FeedPageSize {
				// Go to next page
				m.page++
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.page > 0 {
				m.page--
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if len(m.activities) == service.FeedPageSize {
				m.page++
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(typeFilters)
			m.page = 0
			m.cursor = 0
			m.loading = true
			return m, m.loadPage
		case "r":
			m.loading = true
			return m, m.loadPage
		}
	}
	return m, nil
}

// View renders the activity feed
func (m FeedModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	filter := typeFilters[m.filterIdx]

	if len(m.activities) == 0 {
		if filter != "" {
			return fmt.Sprintf("\n  No %s activities on this page. Press 'f' to change filter.", filter)
		}
		return "\n  No activities found. Press 's' to sync with Garmin Connect."
	}

	var sections []string

	filterLabel := "all"
	if filter != "" {
		filterLabel = filter
	}

	startNum := m.page*service.FeedPageSize + 1
	endNum := m.page*service.FeedPageSize + len(m.activities)
	title := cardTitleStyle.Render(fmt.Sprintf("Activities %d-%d (%s, %d total)",
		startNum, endNum, filterLabel, m.total))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-25s  %-9s  %8s  %6s  %7s  %5s",
		"Date", "Name", "Type", "Distance", "Time", "Pace", "HR"))
	sections = append(sections, header)

	for i, a := range m.activities {
		pace := FormatPace(a.DurationMin, a.DistanceKm)

		hr := "-"
		if a.AvgHR != nil {
			hr = fmt.Sprintf("%.0f", *a.AvgHR)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-25s  %-9s  %8s  %6s  %7s  %5s",
			cursor,
			a.StartTimeLocal.Format("Jan 02"),
			truncateName(a.Name, 25),
			a.Type,
			FormatKm(a.DistanceKm),
			FormatDuration(a.DurationMin),
			pace,
			hr,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  f: filter type  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
