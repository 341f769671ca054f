package port

import (
	"context"

	"github.com/bnema/lectern/internal/domain/entity"
)

// StandaloneSpec describes a standalone window to spawn.
type StandaloneSpec struct {
	Label    string
	File     string
	Page     int
	Zoom     float64
	ViewMode entity.ViewMode
}

// WindowHost creates and controls platform windows by label.
// Every call may fail; callers log the error and carry on.
type WindowHost interface {
	// OpenStandalone spawns a standalone window.
	OpenStandalone(ctx context.Context, spec StandaloneSpec) error
	// OpenMain spawns an independent main window for another document.
	OpenMain(ctx context.Context, file string) error
	// SetTitle retitles the window with the given label.
	SetTitle(ctx context.Context, label, title string) error
	// Focus raises the window with the given label.
	Focus(ctx context.Context, label string) error
	// Close closes the window with the given label.
	Close(ctx context.Context, label string) error
	// OnDestroyed registers a callback fired when a window goes away.
	OnDestroyed(fn func(label string))
}

// Shell is the presentation surface of the current window.
type Shell interface {
	// Alert shows a blocking message to the user.
	Alert(ctx context.Context, title, message string)
	// SetTitle retitles the current window.
	SetTitle(ctx context.Context, title string)
	// CloseDocument returns the window to its no-document state.
	CloseDocument(ctx context.Context)
	// CloseWindow ends the current window.
	CloseWindow(ctx context.Context)
}
