// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/bnema/lectern/internal/cli/styles"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
	"github.com/bnema/lectern/internal/ui/coordinator"
)

const (
	// basePageWidth is the column width of a page at zoom 1.0.
	basePageWidth = 72
	minPageWidth  = 20
	chromeHeight  = 6
	maxBookmarks  = 6
)

// Controller is the window a viewer drives. Commands must not block.
type Controller interface {
	Perform(action coordinator.Action)
	GoToPage(page int)
	SelectTab(id entity.TabID)
	Search(query string)
	OpenDocument(path string)
	CloseDocument()
	PageText(ctx context.Context, page int) (string, error)
}

type (
	stateMsg          struct{ state coordinator.ViewState }
	alertMsg          struct{ title, message string }
	titleMsg          string
	documentClosedMsg struct{}
	closeWindowMsg    struct{}

	pageTextMsg struct {
		file string
		page int
		text string
		err  error
	}
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputOpen
	inputPage
)

// ViewerModel is the terminal presentation of one window.
type ViewerModel struct {
	ctx   context.Context
	ctrl  Controller
	theme *styles.Theme
	keys  styles.ViewerKeyMap
	help  help.Model

	state    coordinator.ViewState
	pages    map[int]string
	viewport viewport.Model
	input    textinput.Model
	mode     inputMode
	alert    *alertMsg
	width    int
	height   int
	ready    bool
}

// NewViewerModel creates a viewer bound to ctrl.
func NewViewerModel(ctx context.Context, theme *styles.Theme, ctrl Controller) ViewerModel {
	vp := viewport.New(basePageWidth, 20)
	vp.KeyMap = viewport.KeyMap{}
	return ViewerModel{
		ctx:      ctx,
		ctrl:     ctrl,
		theme:    theme,
		keys:     styles.DefaultViewerKeyMap(),
		help:     styles.NewStyledHelp(theme),
		pages:    make(map[int]string),
		viewport: vp,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m ViewerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("lectern")
}

// Update implements tea.Model.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.layout()
		return m, nil

	case stateMsg:
		return m.applyState(msg.state)

	case pageTextMsg:
		if msg.file != m.state.File {
			return m, nil
		}
		if msg.err != nil {
			logging.FromContext(m.ctx).Debug().Err(msg.err).Int("page", msg.page).Msg("page text unavailable")
			m.pages[msg.page] = ""
		} else {
			m.pages[msg.page] = msg.text
		}
		m.refreshContent()
		return m, nil

	case alertMsg:
		m.alert = &msg
		return m, nil

	case titleMsg:
		return m, tea.SetWindowTitle(string(msg))

	case documentClosedMsg:
		m.pages = make(map[int]string)
		m.viewport.SetContent("")
		return m, nil

	case closeWindowMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.alert != nil {
			m.alert = nil
			return m, nil
		}
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ViewerModel) applyState(st coordinator.ViewState) (tea.Model, tea.Cmd) {
	if st.File != m.state.File {
		m.pages = make(map[int]string)
		m.viewport.GotoTop()
	}
	pageChanged := st.Page != m.state.Page
	m.state = st
	m.layout()

	cmds := m.fetchPages()
	if pageChanged {
		m.viewport.GotoTop()
	}
	m.refreshContent()
	return m, tea.Batch(cmds...)
}

// visiblePages returns the pages shown side by side.
func (m ViewerModel) visiblePages() []int {
	if !m.state.HasDocument || m.state.Page < 1 {
		return nil
	}
	pages := []int{m.state.Page}
	if m.state.ViewMode == entity.ViewModeTwoColumn && m.state.Page < m.state.TotalPages {
		pages = append(pages, m.state.Page+1)
	}
	return pages
}

func (m ViewerModel) fetchPages() []tea.Cmd {
	var cmds []tea.Cmd
	for _, page := range m.visiblePages() {
		if _, ok := m.pages[page]; ok {
			continue
		}
		cmds = append(cmds, m.fetchPage(m.state.File, page))
	}
	return cmds
}

func (m ViewerModel) fetchPage(file string, page int) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		text, err := ctrl.PageText(ctx, page)
		return pageTextMsg{file: file, page: page, text: text, err: err}
	}
}

func (m *ViewerModel) layout() {
	height := m.height - chromeHeight
	if len(m.state.Tabs) > 0 {
		height -= 2
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(height, 3)
}

// pageWidth is the width of one page column at the current zoom.
func (m ViewerModel) pageWidth() int {
	zoom := m.state.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	columns := len(m.visiblePages())
	available := m.width
	if columns > 1 {
		available = m.width/columns - 1
	}
	return max(minPageWidth, min(available-4, int(float64(basePageWidth)*zoom)))
}

func (m *ViewerModel) refreshContent() {
	pages := m.visiblePages()
	if len(pages) == 0 {
		m.viewport.SetContent("")
		return
	}

	width := m.pageWidth()
	rendered := make([]string, 0, len(pages))
	for _, page := range pages {
		text, ok := m.pages[page]
		switch {
		case !ok:
			text = m.theme.Subtle.Render("Loading page…")
		case strings.TrimSpace(text) == "":
			text = m.theme.Subtle.Render("No text on this page.")
		default:
			text = m.highlight(text)
		}
		box := m.theme.Page.Width(width).Render(text)
		header := m.theme.Subtle.Render(fmt.Sprintf("Page %d", page))
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, header, box))
	}
	m.viewport.SetContent(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

// highlight marks the occurrences of the current search query.
func (m ViewerModel) highlight(text string) string {
	query := strings.TrimSpace(m.state.Search.Query)
	if query == "" || len(m.state.Search.Results) == 0 {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return m.theme.Match.Render(match)
	})
}

func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, k.Open):
		return m.startInput(inputOpen, styles.NewOpenInput(m.theme))
	}

	if !m.state.HasDocument {
		return m, nil
	}

	switch {
	case msg.String() == "j" || msg.String() == "down":
		m.viewport.SetYOffset(m.viewport.YOffset + 1)
	case msg.String() == "k" || msg.String() == "up":
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
	case msg.String() == "enter" && len(m.state.Search.Results) > 0:
		m.ctrl.Perform(coordinator.ActionSearchConfirm)
	case msg.String() == "esc" && m.state.Search.Query != "":
		m.ctrl.Perform(coordinator.ActionSearchCancel)
	case key.Matches(msg, k.GoToPage):
		return m.startInput(inputPage, styles.NewPageInput(m.theme))
	case key.Matches(msg, k.Search):
		return m.startInput(inputSearch, styles.NewSearchInput(m.theme))
	case key.Matches(msg, k.CloseDocument):
		m.ctrl.CloseDocument()
	default:
		if id, ok := m.tabForKey(msg); ok {
			m.ctrl.SelectTab(id)
		} else if action, ok := m.actionFor(msg); ok {
			m.ctrl.Perform(action)
		}
	}
	return m, nil
}

func (m ViewerModel) actionFor(msg tea.KeyMsg) (coordinator.Action, bool) {
	k := m.keys
	bindings := []struct {
		binding key.Binding
		action  coordinator.Action
		main    bool
	}{
		{k.NextPage, coordinator.ActionNextPage, false},
		{k.PrevPage, coordinator.ActionPrevPage, false},
		{k.FirstPage, coordinator.ActionFirstPage, false},
		{k.LastPage, coordinator.ActionLastPage, false},
		{k.Back, coordinator.ActionBack, false},
		{k.Forward, coordinator.ActionForward, false},
		{k.ZoomIn, coordinator.ActionZoomIn, false},
		{k.ZoomOut, coordinator.ActionZoomOut, false},
		{k.ZoomReset, coordinator.ActionZoomReset, false},
		{k.ToggleView, coordinator.ActionToggleViewMode, false},
		{k.ToggleBookmark, coordinator.ActionToggleBookmark, false},
		{k.ClearBookmarks, coordinator.ActionClearBookmarks, false},
		{k.SearchNext, coordinator.ActionSearchNext, false},
		{k.SearchPrev, coordinator.ActionSearchPrev, false},
		{k.NewTab, coordinator.ActionNewTab, true},
		{k.CloseTab, coordinator.ActionCloseTab, true},
		{k.NextTab, coordinator.ActionNextTab, true},
		{k.PrevTab, coordinator.ActionPrevTab, true},
		{k.NewWindow, coordinator.ActionNewWindow, true},
	}

	isMain := m.state.Role.IsMain()
	for _, b := range bindings {
		if key.Matches(msg, b.binding) && (!b.main || isMain) {
			return b.action, true
		}
	}
	if key.Matches(msg, k.MoveToTab) && !isMain {
		return coordinator.ActionMoveToTab, true
	}
	return 0, false
}

// tabForKey maps alt+1..9 to a tab of the main window.
func (m ViewerModel) tabForKey(msg tea.KeyMsg) (entity.TabID, bool) {
	if !m.state.Role.IsMain() || !msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(string(msg.Runes))
	if err != nil || n < 1 || n > len(m.state.Tabs) {
		return 0, false
	}
	return m.state.Tabs[n-1].ID, true
}

func (m ViewerModel) startInput(mode inputMode, input textinput.Model) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input = input
	if mode == inputSearch {
		m.input.SetValue(m.state.Search.Query)
	}
	return m, m.input.Focus()
}

func (m ViewerModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		m.submit(mode, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ViewerModel) submit(mode inputMode, value string) {
	switch mode {
	case inputSearch:
		m.ctrl.Search(value)
	case inputOpen:
		if value == "" {
			return
		}
		if abs, err := filepath.Abs(expandHome(value)); err == nil {
			value = abs
		}
		m.ctrl.OpenDocument(value)
	case inputPage:
		if page, err := strconv.Atoi(value); err == nil {
			m.ctrl.GoToPage(page)
		}
	}
}

// View implements tea.Model.
func (m ViewerModel) View() string {
	if m.alert != nil {
		return m.renderAlert()
	}

	var sections []string
	if tabs := m.renderTabs(); tabs != "" {
		sections = append(sections, tabs)
	}
	sections = append(sections, m.renderHeader())

	switch {
	case m.state.Loading:
		sections = append(sections, m.theme.Subtle.Render("Opening document…"))
	case !m.state.HasDocument:
		sections = append(sections, m.renderEmpty())
	default:
		sections = append(sections, m.viewport.View())
	}

	if m.mode != inputNone {
		sections = append(sections, m.theme.InputBox(m.input.View(), true))
	} else {
		sections = append(sections, m.renderStatus())
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ViewerModel) renderTabs() string {
	if len(m.state.Tabs) == 0 {
		return ""
	}
	labels := lo.Map(m.state.Tabs, func(t entity.Tab, _ int) string { return t.Label })
	tabs := styles.NewTabs(m.theme, labels...)
	tabs.Width = m.width
	tabs.SetActive(lo.IndexOf(lo.Map(m.state.Tabs, func(t entity.Tab, _ int) entity.TabID { return t.ID }), m.state.ActiveTab))
	return tabs.View()
}

func (m ViewerModel) renderHeader() string {
	if !m.state.HasDocument {
		return m.theme.Title.Render(styles.IconDocument + " lectern")
	}

	parts := []string{
		m.theme.Title.Render(styles.IconDocument + " " + m.state.Title),
		m.theme.PageBadge(m.state.Page, m.state.TotalPages),
	}
	if m.state.Chapter != "" {
		parts = append(parts, m.theme.Subtle.Render(m.state.Chapter))
	}
	parts = append(parts, m.theme.BadgeMuted.Render(fmt.Sprintf("%.0f%%", m.state.Zoom*100)))
	if m.state.ViewMode == entity.ViewModeTwoColumn {
		parts = append(parts, m.theme.BadgeMuted.Render("two-column"))
	}
	if m.state.Bookmarked {
		parts = append(parts, m.theme.Highlight.Render(styles.IconBookmark))
	}
	if !m.state.Role.IsMain() {
		parts = append(parts, m.theme.Subtle.Render(styles.IconWindow+" "+m.state.Role.Label()))
	}
	return strings.Join(parts, " ")
}

func (m ViewerModel) renderEmpty() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("No document open"),
		"",
		m.theme.Subtle.Render("Press o to open a PDF"),
	)
	return m.theme.Box.Render(content)
}

func (m ViewerModel) renderStatus() string {
	var parts []string

	search := m.state.Search
	switch {
	case search.Searching:
		parts = append(parts, fmt.Sprintf("%s %q… %d", styles.IconSearch, search.Query, len(search.Results)))
	case search.Query != "" && len(search.Results) == 0:
		parts = append(parts, fmt.Sprintf("%s %q: no matches", styles.IconSearch, search.Query))
	case search.Query != "":
		parts = append(parts, fmt.Sprintf("%s %q %d/%d", styles.IconSearch, search.Query, search.Cursor+1, len(search.Results)))
	}

	if len(m.state.Bookmarks) > 0 {
		pages := lo.Map(lo.Subset(m.state.Bookmarks, 0, maxBookmarks), func(b entity.Bookmark, _ int) string {
			return strconv.Itoa(b.Page)
		})
		more := ""
		if len(m.state.Bookmarks) > maxBookmarks {
			more = "…"
		}
		parts = append(parts, fmt.Sprintf("%s %s%s", styles.IconBookmark, strings.Join(pages, ","), more))
	}

	if n := len(m.state.Windows); n > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", styles.IconWindow, n))
	}

	if len(parts) == 0 {
		return m.theme.StatusBar.Render(" ")
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

func (m ViewerModel) renderAlert() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.ErrorStyle.Bold(true).Render(styles.IconWarning+" "+m.alert.title),
		"",
		m.theme.Normal.Render(m.alert.message),
		"",
		m.theme.Subtle.Render("Press any key to continue"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.theme.Box.Render(content))
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
