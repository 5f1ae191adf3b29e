package tui

import (
	"context"
	"fmt"
	"strings"

	"fitdash/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	syncing     bool
	done        bool

	progressCh chan service.SyncProgress
	resultCh   chan syncOutcome
	progress   service.SyncProgress

	result *service.SyncResult
	err    error
}

type syncOutcome struct {
	result *service.SyncResult
	err    error
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.SyncService) SyncModel {
	return SyncModel{
		syncService: ss,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

type syncProgressMsg service.SyncProgress

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.progress = service.SyncProgress(msg)
		return m, m.waitForProgress

	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if !m.syncing {
			switch msg.String() {
			case "enter", "s":
				return m.startSync()
			}
		}
	}
	return m, nil
}

// startSync launches the sync in a goroutine and begins consuming its
// progress channel.
func (m SyncModel) startSync() (tea.Model, tea.Cmd) {
	m.syncing = true
	m.done = false
	m.err = nil
	m.result = nil
	m.progress = service.SyncProgress{}
	m.progressCh = make(chan service.SyncProgress, 64)
	m.resultCh = make(chan syncOutcome, 1)

	progressCh := m.progressCh
	resultCh := m.resultCh
	svc := m.syncService

	go func() {
		result, err := svc.SyncAll(context.Background(), progressCh)
		resultCh <- syncOutcome{result: result, err: err}
	}()

	return m, m.waitForProgress
}

// waitForProgress blocks on the next progress update; when the
// channel closes the final result is ready.
func (m SyncModel) waitForProgress() tea.Msg {
	p, ok := <-m.progressCh
	if !ok {
		out := <-m.resultCh
		return SyncDoneMsg{Result: out.result, Err: out.err}
	}
	return syncProgressMsg(p)
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Garmin Connect Sync")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will sync your Garmin Connect data:")
	lines = append(lines, "")
	lines = append(lines, "  1. Fetch new activities")
	lines = append(lines, "  2. Fetch daily wellness (sleep, HRV, stress, steps)")
	lines = append(lines, "")

	remaining := m.syncService.RateLimitRemaining()
	lines = append(lines, statusStyle.Render(fmt.Sprintf("  API budget: %d requests left this minute", remaining)))
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")

	switch m.progress.Phase {
	case "activities":
		lines = append(lines, "  Fetching activities...")
		if m.progress.Completed > 0 {
			lines = append(lines, fmt.Sprintf("  %d fetched so far", m.progress.Completed))
		}
	case "wellness":
		lines = append(lines, "  Fetching daily wellness...")
		if m.progress.Total > 0 {
			pct := float64(m.progress.Completed) / float64(m.progress.Total) * 100
			lines = append(lines, fmt.Sprintf("  %s %d/%d days",
				RenderProgressBar(pct, 30), m.progress.Completed, m.progress.Total))
		}
		if m.progress.CurrentDay != "" {
			lines = append(lines, statusStyle.Render("  "+m.progress.CurrentDay))
		}
	default:
		lines = append(lines, "  Starting...")
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  This may take a moment..."))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	var lines []string
	r := m.result
	lines = append(lines, "")

	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d activities synced", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new activities"))
	}

	if r.WellnessDays > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d wellness days updated", r.WellnessDays)))
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}
