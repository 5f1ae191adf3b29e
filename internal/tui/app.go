package tui

import (
	"fitdash/internal/coach"
	"fitdash/internal/service"
	"fitdash/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenFeed
	ScreenGoals
	ScreenCalendar
	ScreenWellness
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard DashboardModel
	feed      FeedModel
	goals     GoalsModel
	calendar  CalendarModel
	wellness  WellnessModel
	syncView  SyncModel
	help      HelpModel

	// Services
	db           *store.DB
	queryService *service.QueryService
	syncService  *service.SyncService

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, syncService *service.SyncService, queryService *service.QueryService, adviser *coach.Coach) *App {
	return &App{
		screen:       ScreenDashboard,
		db:           db,
		queryService: queryService,
		syncService:  syncService,
		dashboard:    NewDashboardModel(queryService, adviser),
		feed:         NewFeedModel(queryService),
		goals:        NewGoalsModel(queryService),
		calendar:     NewCalendarModel(queryService),
		wellness:     NewWellnessModel(queryService, 0, 0),
		syncView:     NewSyncModel(syncService),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (disabled while a sync is running)
		if a.screen != ScreenSync || !a.syncView.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard.loading = true
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenFeed
				return a, a.feed.Init()
			case "3":
				a.screen = ScreenGoals
				return a, a.goals.Init()
			case "4":
				a.screen = ScreenCalendar
				return a, a.calendar.Init()
			case "5":
				a.screen = ScreenWellness
				return a, a.wellness.Init()
			case "6", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncView.Init()
				}
				// Let 's' fall through to the sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.wellness.setSize(msg.Width, msg.Height)

	case SyncCompleteMsg:
		// Refresh dashboard after sync
		a.screen = ScreenDashboard
		a.dashboard.loading = true
		return a, a.dashboard.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenFeed:
		var m tea.Model
		m, cmd = a.feed.Update(msg)
		a.feed = m.(FeedModel)
	case ScreenGoals:
		var m tea.Model
		m, cmd = a.goals.Update(msg)
		a.goals = m.(GoalsModel)
	case ScreenCalendar:
		var m tea.Model
		m, cmd = a.calendar.Update(msg)
		a.calendar = m.(CalendarModel)
	case ScreenWellness:
		var m tea.Model
		m, cmd = a.wellness.Update(msg)
		a.wellness = m.(WellnessModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncView.Update(msg)
		a.syncView = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("Fitdash")
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenFeed:
		content = a.feed.View()
	case ScreenGoals:
		content = a.goals.View()
	case ScreenCalendar:
		content = a.calendar.View()
	case ScreenWellness:
		content = a.wellness.View()
	case ScreenSync:
		content = a.syncView.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activities", ScreenFeed},
		{"3", "Goals", ScreenGoals},
		{"4", "Calendar", ScreenCalendar},
		{"5", "Wellness", ScreenWellness},
		{"6", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
