// Package desktop provides desktop environment integration for Linux (XDG)
// and the process-backed window host.
package desktop

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/logging"
)

const (
	appName         = "lectern"
	desktopFileName = "lectern.desktop"
	pdfMimeType     = "application/pdf"
	filePerm        = 0o644
	dirPerm         = 0o755
)

// desktopFileTemplate is the freedesktop.org desktop entry format.
// %s placeholder for executable path.
const desktopFileTemplate = `[Desktop Entry]
Version=1.1
Type=Application
Name=Lectern
GenericName=Document Viewer
Comment=Multi-window PDF viewer
Exec=%s open %%f
Terminal=true
Categories=Office;Viewer;
MimeType=application/pdf;
StartupNotify=false
`

// Adapter implements port.DesktopIntegration using XDG tools.
type Adapter struct {
	xdgMimePath     string
	updateDesktopDB string
	dataHome        string
}

// New creates a new desktop integration adapter.
func New() port.DesktopIntegration {
	a := &Adapter{}

	if path, err := exec.LookPath("xdg-mime"); err == nil {
		a.xdgMimePath = path
	}
	// Optional, helps some desktop environments pick up new entries.
	if path, err := exec.LookPath("update-desktop-database"); err == nil {
		a.updateDesktopDB = path
	}

	return a
}

func (a *Adapter) applicationsDir() (string, error) {
	dataHome := a.dataHome
	if dataHome == "" {
		dataHome = os.Getenv("XDG_DATA_HOME")
	}
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "applications"), nil
}

func (a *Adapter) desktopFilePath() (string, error) {
	appDir, err := a.applicationsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, desktopFileName), nil
}

// executablePath returns the path to the lectern executable.
func executablePath() (string, error) {
	execPath, err := os.Executable()
	if err == nil {
		if resolved, symlinkErr := filepath.EvalSymlinks(execPath); symlinkErr == nil {
			execPath = resolved
		}
		return execPath, nil
	}

	path, err := exec.LookPath(appName)
	if err != nil {
		return "", fmt.Errorf("cannot find %s executable: %w", appName, err)
	}
	return path, nil
}

// GetStatus checks the current desktop integration state.
func (a *Adapter) GetStatus(ctx context.Context) (*port.DesktopIntegrationStatus, error) {
	log := logging.FromContext(ctx)
	status := &port.DesktopIntegrationStatus{}

	desktopPath, err := a.desktopFilePath()
	if err != nil {
		return nil, err
	}
	status.DesktopFilePath = desktopPath
	if _, statErr := os.Stat(desktopPath); statErr == nil {
		status.DesktopFileInstalled = true
	}

	if execPath, err := executablePath(); err == nil {
		status.ExecutablePath = execPath
	}

	if a.xdgMimePath != "" {
		out, err := exec.CommandContext(ctx, a.xdgMimePath, "query", "default", pdfMimeType).Output()
		if err == nil {
			status.IsDefaultPDFViewer = strings.TrimSpace(string(out)) == desktopFileName
		}
	}

	log.Debug().
		Bool("desktop_installed", status.DesktopFileInstalled).
		Bool("default", status.IsDefaultPDFViewer).
		Str("desktop_path", status.DesktopFilePath).
		Str("exec_path", status.ExecutablePath).
		Msg("desktop integration status")

	return status, nil
}

// InstallDesktopFile writes the desktop file to the XDG applications directory.
func (a *Adapter) InstallDesktopFile(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)

	execPath, err := executablePath()
	if err != nil {
		return "", err
	}
	desktopPath, err := a.desktopFilePath()
	if err != nil {
		return "", err
	}

	appDir := filepath.Dir(desktopPath)
	if err := os.MkdirAll(appDir, dirPerm); err != nil {
		return "", fmt.Errorf("create applications dir: %w", err)
	}
	if err := os.WriteFile(desktopPath, []byte(fmt.Sprintf(desktopFileTemplate, execPath)), filePerm); err != nil {
		return "", fmt.Errorf("write desktop file: %w", err)
	}

	log.Info().Str("path", desktopPath).Msg("desktop file installed")
	a.refreshDatabase(ctx, appDir)
	return desktopPath, nil
}

// RemoveDesktopFile removes the desktop file from the XDG applications directory.
func (a *Adapter) RemoveDesktopFile(ctx context.Context) error {
	log := logging.FromContext(ctx)

	desktopPath, err := a.desktopFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(desktopPath); os.IsNotExist(err) {
		log.Debug().Str("path", desktopPath).Msg("desktop file not found (already removed)")
		return nil
	}
	if err := os.Remove(desktopPath); err != nil {
		return fmt.Errorf("remove desktop file: %w", err)
	}

	log.Info().Str("path", desktopPath).Msg("desktop file removed")
	a.refreshDatabase(ctx, filepath.Dir(desktopPath))
	return nil
}

// SetAsDefaultPDFViewer registers lectern as the application/pdf handler.
func (a *Adapter) SetAsDefaultPDFViewer(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if a.xdgMimePath == "" {
		return fmt.Errorf("xdg-mime not found (install xdg-utils)")
	}
	desktopPath, err := a.desktopFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(desktopPath); os.IsNotExist(err) {
		return fmt.Errorf("desktop file not installed - run 'lectern desktop install' first")
	}

	cmd := exec.CommandContext(ctx, a.xdgMimePath, "default", desktopFileName, pdfMimeType)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("xdg-mime failed: %s", strings.TrimSpace(string(out)))
	}

	log.Info().Msg("lectern set as default PDF viewer")
	return nil
}

func (a *Adapter) refreshDatabase(ctx context.Context, appDir string) {
	if a.updateDesktopDB == "" {
		return
	}
	if err := exec.CommandContext(ctx, a.updateDesktopDB, appDir).Run(); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("update-desktop-database failed (non-fatal)")
	}
}
