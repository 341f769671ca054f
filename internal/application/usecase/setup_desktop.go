package usecase

import (
	"context"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/logging"
)

// InstallDesktopInput contains the input for the install operation.
type InstallDesktopInput struct {
	// SetDefault also registers lectern as the default PDF viewer.
	SetDefault bool
}

// InstallDesktopOutput contains the result of the install operation.
type InstallDesktopOutput struct {
	DesktopPath        string
	WasDesktopExisting bool
	WasAlreadyDefault  bool
	IsDefault          bool
}

// InstallDesktopUseCase registers lectern as a desktop PDF handler.
type InstallDesktopUseCase struct {
	desktop port.DesktopIntegration
}

// NewInstallDesktopUseCase creates a new InstallDesktopUseCase.
func NewInstallDesktopUseCase(desktop port.DesktopIntegration) *InstallDesktopUseCase {
	return &InstallDesktopUseCase{desktop: desktop}
}

// Execute installs the desktop file and optionally claims application/pdf.
func (uc *InstallDesktopUseCase) Execute(ctx context.Context, input InstallDesktopInput) (*InstallDesktopOutput, error) {
	log := logging.FromContext(ctx)

	status, err := uc.desktop.GetStatus(ctx)
	if err != nil {
		return nil, err
	}

	output := &InstallDesktopOutput{
		WasDesktopExisting: status.DesktopFileInstalled,
		WasAlreadyDefault:  status.IsDefaultPDFViewer,
		IsDefault:          status.IsDefaultPDFViewer,
	}

	desktopPath, err := uc.desktop.InstallDesktopFile(ctx)
	if err != nil {
		return nil, err
	}
	output.DesktopPath = desktopPath

	if input.SetDefault && !status.IsDefaultPDFViewer {
		if err := uc.desktop.SetAsDefaultPDFViewer(ctx); err != nil {
			return nil, err
		}
		output.IsDefault = true
	}

	log.Info().
		Str("desktop_path", output.DesktopPath).
		Bool("was_desktop_existing", output.WasDesktopExisting).
		Bool("is_default", output.IsDefault).
		Msg("desktop install complete")

	return output, nil
}

// RemoveDesktopUseCase removes desktop integration files.
type RemoveDesktopUseCase struct {
	desktop port.DesktopIntegration
}

// NewRemoveDesktopUseCase creates a new RemoveDesktopUseCase.
func NewRemoveDesktopUseCase(desktop port.DesktopIntegration) *RemoveDesktopUseCase {
	return &RemoveDesktopUseCase{desktop: desktop}
}

// RemoveDesktopOutput contains the result of the remove operation.
type RemoveDesktopOutput struct {
	WasDesktopInstalled bool
	RemovedDesktopPath  string
}

// Execute removes the desktop entry. The MIME default then falls back to
// whatever handler the desktop picks next.
func (uc *RemoveDesktopUseCase) Execute(ctx context.Context) (*RemoveDesktopOutput, error) {
	status, err := uc.desktop.GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.desktop.RemoveDesktopFile(ctx); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Bool("was_desktop_installed", status.DesktopFileInstalled).
		Msg("desktop integration removed")

	return &RemoveDesktopOutput{
		WasDesktopInstalled: status.DesktopFileInstalled,
		RemovedDesktopPath:  status.DesktopFilePath,
	}, nil
}
