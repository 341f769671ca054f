package styles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bnema/lectern/internal/application/usecase"
)

// SessionsCLIRenderer renders non-interactive output for the sessions
// and recent subcommands.
type SessionsCLIRenderer struct {
	theme *Theme
}

func NewSessionsCLIRenderer(theme *Theme) *SessionsCLIRenderer {
	return &SessionsCLIRenderer{theme: theme}
}

func (r *SessionsCLIRenderer) RenderEmptyList() string {
	return r.theme.Subtle.Render("No saved sessions found.")
}

func (r *SessionsCLIRenderer) RenderList(items []usecase.SessionInfo, limit int) string {
	if len(items) == 0 {
		return r.RenderEmptyList()
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s", r.theme.Highlight.Render(IconDocument), r.theme.Title.Render("Sessions")))
	if limit > 0 {
		b.WriteString(r.theme.Subtle.Render(fmt.Sprintf(" (showing up to %d)", limit)))
	}
	b.WriteString("\n\n")

	for _, s := range items {
		b.WriteString(r.renderOne(s))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.theme.Subtle.Render("Tip: use `lectern sessions` for the interactive browser."))
	return b.String()
}

func (r *SessionsCLIRenderer) renderOne(info usecase.SessionInfo) string {
	name := r.theme.Highlight.Render(info.Name)
	if info.Missing {
		name = r.theme.WarningStyle.Render(info.Name + " (missing)")
	}
	return fmt.Sprintf("%s  %s  %s",
		name,
		r.theme.Subtle.Render(filepath.Dir(info.FilePath)),
		r.theme.TimeBadge(info.LastOpened),
	)
}

// RenderRecent prints one path per line for scripting.
func (r *SessionsCLIRenderer) RenderRecent(items []usecase.SessionInfo) string {
	paths := make([]string, 0, len(items))
	for _, s := range items {
		if !s.Missing {
			paths = append(paths, s.FilePath)
		}
	}
	return strings.Join(paths, "\n")
}

func (r *SessionsCLIRenderer) RenderDeleted(path string) string {
	return fmt.Sprintf("%s Session for %s deleted.",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Highlight.Render(path),
	)
}

func (r *SessionsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %v", r.theme.ErrorStyle.Render(IconX), err)
}
