package port

import "context"

// DesktopIntegrationStatus represents the current state of desktop integration.
type DesktopIntegrationStatus struct {
	DesktopFileInstalled bool
	DesktopFilePath      string
	IsDefaultPDFViewer   bool
	ExecutablePath       string
}

// DesktopIntegration registers lectern with the desktop as a PDF handler,
// which is how documents reach the "opened via OS" startup path.
type DesktopIntegration interface {
	// GetStatus checks the current desktop integration state.
	GetStatus(ctx context.Context) (*DesktopIntegrationStatus, error)

	// InstallDesktopFile writes the desktop entry and returns its path.
	// Idempotent: safe to call multiple times.
	InstallDesktopFile(ctx context.Context) (string, error)

	// RemoveDesktopFile removes the desktop entry.
	// Idempotent: returns nil if file doesn't exist.
	RemoveDesktopFile(ctx context.Context) error

	// SetAsDefaultPDFViewer makes lectern the handler for application/pdf.
	// Returns an error if the desktop entry is not installed.
	SetAsDefaultPDFViewer(ctx context.Context) error
}
