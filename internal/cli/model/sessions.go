package model

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/cli/styles"
	"github.com/bnema/lectern/internal/logging"
)

const defaultListedSessions = 50

// SessionsModel is the Bubble Tea model for the saved sessions browser.
type SessionsModel struct {
	// UI components
	help    help.Model
	keys    styles.SessionsKeyMap
	table   table.Model
	confirm *styles.ConfirmModel

	// State
	sessions      []usecase.SessionInfo
	selected      string
	width         int
	height        int
	err           error
	statusMessage string

	// Dependencies
	ctx       context.Context
	listUC    *usecase.ListSessionsUseCase
	deleteUC  *usecase.DeleteSessionUseCase
	maxListed int
	theme     *styles.Theme
}

// SessionsModelConfig holds configuration for the sessions model.
type SessionsModelConfig struct {
	ListSessionsUC    *usecase.ListSessionsUseCase
	DeleteSessionUC   *usecase.DeleteSessionUseCase
	MaxListedSessions int
}

// NewSessionsModel creates a new sessions browser model.
func NewSessionsModel(ctx context.Context, theme *styles.Theme, cfg SessionsModelConfig) SessionsModel {
	maxListed := cfg.MaxListedSessions
	if maxListed <= 0 {
		maxListed = defaultListedSessions
	}

	return SessionsModel{
		help:      styles.NewStyledHelp(theme),
		keys:      styles.DefaultSessionsKeyMap(),
		table:     styles.NewStyledTable(theme, styles.SessionsTableColumns(), nil, 80, 10),
		width:     80,
		height:    24,
		ctx:       ctx,
		listUC:    cfg.ListSessionsUC,
		deleteUC:  cfg.DeleteSessionUC,
		maxListed: maxListed,
		theme:     theme,
	}
}

// Selected returns the document chosen with enter, if any.
func (m SessionsModel) Selected() string {
	return m.selected
}

// Init implements tea.Model.
func (m SessionsModel) Init() tea.Cmd {
	return m.loadSessions
}

type sessionsLoadedMsg struct {
	sessions []usecase.SessionInfo
	err      error
}

type sessionDeletedMsg struct {
	path string
	err  error
}

func (m SessionsModel) loadSessions() tea.Msg {
	log := logging.FromContext(m.ctx)

	if m.listUC == nil {
		return sessionsLoadedMsg{err: fmt.Errorf("session storage not available")}
	}

	output, err := m.listUC.Execute(m.ctx, m.maxListed)
	if err != nil {
		log.Error().Err(err).Msg("failed to load sessions")
		return sessionsLoadedMsg{err: err}
	}

	log.Debug().Int("count", len(output.Sessions)).Msg("loaded sessions")
	return sessionsLoadedMsg{sessions: output.Sessions}
}

// Update implements tea.Model.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case sessionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.sessions = msg.sessions
		m.table.SetRows(lo.Map(msg.sessions, func(s usecase.SessionInfo, _ int) table.Row {
			return styles.SessionRow{
				Name:    s.Name,
				Folder:  filepath.Dir(s.FilePath),
				Opened:  styles.RelativeTime(s.LastOpened),
				Missing: s.Missing,
			}.ToTableRow()
		}))
		if m.table.Cursor() >= len(m.sessions) {
			m.table.SetCursor(max(len(m.sessions)-1, 0))
		}
		return m, nil

	case sessionDeletedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Forgot %s", filepath.Base(msg.path))
		}
		return m, m.loadSessions
	}

	return m, nil
}

func (m SessionsModel) current() (usecase.SessionInfo, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sessions) {
		return usecase.SessionInfo{}, false
	}
	return m.sessions[idx], true
}

func (m SessionsModel) handleConfirmModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	confirm, cmd := m.confirm.Update(msg)
	m.confirm = &confirm
	if m.confirm.Done() {
		if m.confirm.Result() {
			if s, ok := m.current(); ok {
				cmd = m.deleteSession(s.FilePath)
			}
		}
		m.confirm = nil
	}
	return m, cmd
}

func (m SessionsModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		s, ok := m.current()
		if !ok {
			return m, nil
		}
		if s.Missing {
			m.statusMessage = fmt.Sprintf("%s no longer exists", s.Name)
			return m, nil
		}
		m.selected = s.FilePath
		return m, tea.Quit

	case key.Matches(msg, m.keys.Delete):
		if s, ok := m.current(); ok {
			confirm := styles.NewConfirm(m.theme, fmt.Sprintf("Forget the session of %s?", s.Name))
			m.confirm = &confirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SessionsModel) deleteSession(path string) tea.Cmd {
	return func() tea.Msg {
		if m.deleteUC == nil {
			return sessionDeletedMsg{path: path, err: fmt.Errorf("session storage not available")}
		}
		err := m.deleteUC.Execute(m.ctx, usecase.DeleteSessionInput{FilePath: path})
		return sessionDeletedMsg{path: path, err: err}
	}
}

// View implements tea.Model.
func (m SessionsModel) View() string {
	if m.confirm != nil {
		return m.confirm.View()
	}

	t := m.theme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("%s Error: %v", styles.IconX, m.err)))
		b.WriteString("\n\n")
	}

	if m.statusMessage != "" {
		b.WriteString(t.Subtle.Render(m.statusMessage))
		b.WriteString("\n\n")
	}

	if len(m.sessions) == 0 {
		b.WriteString(t.Subtle.Render("  No saved sessions found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if s, ok := m.current(); ok {
			b.WriteString(t.Subtle.Render(s.FilePath))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m SessionsModel) renderHeader() string {
	t := m.theme

	icon := lipgloss.NewStyle().Foreground(t.Accent).Render(styles.IconDocument)
	title := t.Title.MarginLeft(1).Render("Sessions")

	missing := lo.CountBy(m.sessions, func(s usecase.SessionInfo) bool { return s.Missing })
	stats := t.Subtle.Render(fmt.Sprintf("  %s", t.CountBadge(len(m.sessions), "document")))
	if missing > 0 {
		stats += t.WarningStyle.Render(fmt.Sprintf("  %s %d missing", styles.IconWarning, missing))
	}

	return icon + title + stats
}

// Ensure interface compliance at compile time.
var _ tea.Model = (*SessionsModel)(nil)
