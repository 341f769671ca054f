package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// SessionsTableColumns returns columns for the saved sessions table.
func SessionsTableColumns() []table.Column {
	return []table.Column{
		{Title: "Document", Width: 32},
		{Title: "Folder", Width: 36},
		{Title: "Opened", Width: 12},
	}
}

// SessionRow is a saved session as shown in the table.
type SessionRow struct {
	Name    string
	Folder  string
	Opened  string
	Missing bool
}

// ToTableRow converts the row for the table model.
func (r SessionRow) ToTableRow() table.Row {
	name := r.Name
	if r.Missing {
		name += " (missing)"
	}
	return table.Row{name, r.Folder, r.Opened}
}
