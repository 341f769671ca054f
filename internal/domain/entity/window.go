package entity

import (
	"errors"
	"fmt"
	"strings"
)

// MainWindowLabel is the label reserved for the main window.
const MainWindowLabel = "main"

// ErrInvalidWindowLabel is returned when a standalone window label is empty or reserved.
var ErrInvalidWindowLabel = errors.New("invalid window label")

// ViewMode is the page layout of a window.
type ViewMode string

const (
	ViewModeSingle    ViewMode = "single"
	ViewModeTwoColumn ViewMode = "two-column"
)

// ParseViewMode converts a persisted or wire value into a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewModeSingle, ViewModeTwoColumn:
		return ViewMode(s), nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

// ViewModeOrDefault returns the parsed mode, falling back to single page.
func ViewModeOrDefault(s string) ViewMode {
	mode, err := ParseViewMode(s)
	if err != nil {
		return ViewModeSingle
	}
	return mode
}

// Toggle switches between single and two-column layouts.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewModeTwoColumn {
		return ViewModeSingle
	}
	return ViewModeTwoColumn
}

// RoleKind distinguishes the main window from standalone windows.
type RoleKind int

const (
	RoleMain RoleKind = iota
	RoleStandalone
)

func (k RoleKind) String() string {
	switch k {
	case RoleMain:
		return "main"
	case RoleStandalone:
		return "standalone"
	default:
		return "unknown"
	}
}

// WindowRole identifies a window. It is fixed for the lifetime of the window.
type WindowRole struct {
	kind  RoleKind
	label string
}

// MainRole returns the role of the main window.
func MainRole() WindowRole {
	return WindowRole{kind: RoleMain, label: MainWindowLabel}
}

// StandaloneRole returns the role of a standalone window with the given label.
func StandaloneRole(label string) (WindowRole, error) {
	label = strings.TrimSpace(label)
	if label == "" || label == MainWindowLabel {
		return WindowRole{}, fmt.Errorf("%w: %q", ErrInvalidWindowLabel, label)
	}
	return WindowRole{kind: RoleStandalone, label: label}, nil
}

// Kind returns the role discriminator.
func (r WindowRole) Kind() RoleKind { return r.kind }

// Label returns the window label; "main" for the main window.
func (r WindowRole) Label() string {
	if r.kind == RoleMain {
		return MainWindowLabel
	}
	return r.label
}

// IsMain reports whether this is the main window.
func (r WindowRole) IsMain() bool { return r.kind == RoleMain }

func (r WindowRole) String() string {
	if r.IsMain() {
		return MainWindowLabel
	}
	return "standalone(" + r.label + ")"
}

// StandaloneWindow is main's view of a live standalone window.
type StandaloneWindow struct {
	Label    string
	Page     int
	Chapter  string
	Zoom     float64
	ViewMode ViewMode
}

// Title returns the title shown by the window's chrome.
func (w *StandaloneWindow) Title(docTitle string) string {
	return WindowTitle(docTitle, w.Page, w.Chapter)
}

// WindowTitle formats a window title for a page and optional chapter.
func WindowTitle(docTitle string, page int, chapter string) string {
	title := fmt.Sprintf("Page %d", page)
	if chapter != "" {
		title = fmt.Sprintf("P%d: %s", page, chapter)
	}
	if docTitle == "" {
		return title
	}
	return title + " - " + docTitle
}

// WindowRegistry tracks standalone windows in creation order.
type WindowRegistry struct {
	windows []*StandaloneWindow
}

// NewWindowRegistry creates an empty registry.
func NewWindowRegistry() *WindowRegistry {
	return &WindowRegistry{windows: make([]*StandaloneWindow, 0)}
}

// Add registers a window, replacing any entry with the same label.
func (r *WindowRegistry) Add(w *StandaloneWindow) {
	for i, existing := range r.windows {
		if existing.Label == w.Label {
			r.windows[i] = w
			return
		}
	}
	r.windows = append(r.windows, w)
}

// Find returns the window with the given label, or nil.
func (r *WindowRegistry) Find(label string) *StandaloneWindow {
	for _, w := range r.windows {
		if w.Label == label {
			return w
		}
	}
	return nil
}

// Remove unregisters a window and returns it, or nil if unknown.
func (r *WindowRegistry) Remove(label string) *StandaloneWindow {
	for i, w := range r.windows {
		if w.Label == label {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return w
		}
	}
	return nil
}

// All returns a copy of the registered windows.
func (r *WindowRegistry) All() []StandaloneWindow {
	out := make([]StandaloneWindow, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, *w)
	}
	return out
}

// Labels returns the labels of all registered windows.
func (r *WindowRegistry) Labels() []string {
	out := make([]string, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w.Label)
	}
	return out
}

// Count returns the number of registered windows.
func (r *WindowRegistry) Count() int {
	return len(r.windows)
}
