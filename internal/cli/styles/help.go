package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// ViewerKeyMap defines keybindings for the document viewer.
type ViewerKeyMap struct {
	NextPage       key.Binding
	PrevPage       key.Binding
	FirstPage      key.Binding
	LastPage       key.Binding
	GoToPage       key.Binding
	Back           key.Binding
	Forward        key.Binding
	ZoomIn         key.Binding
	ZoomOut        key.Binding
	ZoomReset      key.Binding
	ToggleView     key.Binding
	NewTab         key.Binding
	CloseTab       key.Binding
	NextTab        key.Binding
	PrevTab        key.Binding
	NewWindow      key.Binding
	MoveToTab      key.Binding
	ToggleBookmark key.Binding
	ClearBookmarks key.Binding
	Search         key.Binding
	SearchNext     key.Binding
	SearchPrev     key.Binding
	Open           key.Binding
	CloseDocument  key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.Search, k.ToggleBookmark, k.NewWindow, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.GoToPage},
		{k.Back, k.Forward, k.ZoomIn, k.ZoomOut, k.ZoomReset, k.ToggleView},
		{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab, k.NewWindow, k.MoveToTab},
		{k.Search, k.SearchNext, k.SearchPrev, k.ToggleBookmark, k.ClearBookmarks},
		{k.Open, k.CloseDocument, k.Help, k.Quit},
	}
}

// DefaultViewerKeyMap returns the default viewer keybindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		NextPage:       key.NewBinding(key.WithKeys("l", "right", "pgdown", " "), key.WithHelp("l/→", "next page")),
		PrevPage:       key.NewBinding(key.WithKeys("h", "left", "pgup"), key.WithHelp("h/←", "prev page")),
		FirstPage:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
		LastPage:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
		GoToPage:       key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to page")),
		Back:           key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "back")),
		Forward:        key.NewBinding(key.WithKeys("ctrl+i", "tab"), key.WithHelp("C-i", "forward")),
		ZoomIn:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:        key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset:      key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		ToggleView:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "two-column")),
		NewTab:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "new tab")),
		CloseTab:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close tab")),
		NextTab:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
		PrevTab:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev tab")),
		NewWindow:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "new window")),
		MoveToTab:      key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "move to tab")),
		ToggleBookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		ClearBookmarks: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "clear bookmarks")),
		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		SearchNext:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		SearchPrev:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
		Open:           key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		CloseDocument:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("C-w", "close document")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// SessionsKeyMap defines keybindings for the sessions browser.
type SessionsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Delete key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k SessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Delete, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k SessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Open, k.Delete},
		{k.Help, k.Quit},
	}
}

// DefaultSessionsKeyMap returns the default sessions keybindings.
func DefaultSessionsKeyMap() SessionsKeyMap {
	return SessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "forget"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
