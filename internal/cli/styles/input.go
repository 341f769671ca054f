package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledInput creates a themed text input.
func NewStyledInput(theme *Theme, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.Prompt = "/ "
	return ti
}

// NewSearchInput creates the full-text search input.
func NewSearchInput(theme *Theme) textinput.Model {
	ti := NewStyledInput(theme, "Search document...")
	ti.CharLimit = 256
	return ti
}

// NewOpenInput creates the input for a document path.
func NewOpenInput(theme *Theme) textinput.Model {
	ti := NewStyledInput(theme, "Path to a PDF...")
	ti.Prompt = "→ "
	ti.CharLimit = 4096
	return ti
}

// NewPageInput creates the go-to-page input.
func NewPageInput(theme *Theme) textinput.Model {
	ti := NewStyledInput(theme, "Page number")
	ti.Prompt = "# "
	ti.CharLimit = 8
	return ti
}

// InputBox wraps a text input in a styled box.
func (t *Theme) InputBox(input string, focused bool) string {
	style := t.Input
	if focused {
		style = t.InputFocused
	}
	return style.Render(input)
}
