package desktop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/logging"
	"golang.org/x/sys/unix"
)

// ErrUnknownWindow is returned for labels the host never spawned or that already exited.
var ErrUnknownWindow = errors.New("unknown window")

// ProcessHostConfig configures a ProcessHost.
type ProcessHostConfig struct {
	// Executable is the lectern binary. Defaults to the running executable.
	Executable string
	// Launcher is a command prefix that opens a terminal, e.g. "foot -e".
	Launcher string
	// Env is appended to the current environment of spawned windows.
	Env []string
}

// ProcessHost implements port.WindowHost with one lectern process per window.
// Each child runs in its own process group so closing a window also closes
// the terminal launcher wrapping it.
type ProcessHost struct {
	ctx      context.Context
	exe      string
	launcher []string
	env      []string

	mu          sync.Mutex
	windows     map[string]*windowProcess
	onDestroyed []func(label string)
}

type windowProcess struct {
	cmd   *exec.Cmd
	title string
}

var _ port.WindowHost = (*ProcessHost)(nil)

// NewProcessHost creates a host. ctx scopes logging for exit notifications.
func NewProcessHost(ctx context.Context, cfg ProcessHostConfig) (*ProcessHost, error) {
	exe := cfg.Executable
	if exe == "" {
		var err error
		if exe, err = executablePath(); err != nil {
			return nil, err
		}
	}
	return &ProcessHost{
		ctx:      logging.WithComponent(ctx, "window-host"),
		exe:      exe,
		launcher: strings.Fields(cfg.Launcher),
		env:      cfg.Env,
		windows:  make(map[string]*windowProcess),
	}, nil
}

// OpenStandalone spawns a standalone window process.
func (h *ProcessHost) OpenStandalone(ctx context.Context, spec port.StandaloneSpec) error {
	query := usecase.StandaloneLaunchParams(spec).Encode()
	return h.spawn(ctx, spec.Label, query)
}

// OpenMain spawns an independent main window on another document. Main
// windows are not tracked: they outlive the window that opened them.
func (h *ProcessHost) OpenMain(ctx context.Context, file string) error {
	query := usecase.LaunchParams{OpenFile: file}.Encode()
	cmd := h.command(query)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn main window: %w", err)
	}
	if err := cmd.Process.Release(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to release main window process")
	}
	return nil
}

func (h *ProcessHost) command(query string) *exec.Cmd {
	args := append([]string{}, h.launcher...)
	args = append(args, h.exe, "open", "--launch", query)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = append(os.Environ(), h.env...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

func (h *ProcessHost) spawn(ctx context.Context, label, query string) error {
	log := logging.FromContext(ctx)

	h.mu.Lock()
	if _, exists := h.windows[label]; exists {
		h.mu.Unlock()
		return fmt.Errorf("window %q already exists", label)
	}
	cmd := h.command(query)
	if err := cmd.Start(); err != nil {
		h.mu.Unlock()
		return fmt.Errorf("spawn window %q: %w", label, err)
	}
	h.windows[label] = &windowProcess{cmd: cmd}
	h.mu.Unlock()

	log.Info().Str("label", label).Int("pid", cmd.Process.Pid).Msg("standalone window spawned")

	go h.wait(label, cmd)
	return nil
}

func (h *ProcessHost) wait(label string, cmd *exec.Cmd) {
	err := cmd.Wait()

	h.mu.Lock()
	if current, ok := h.windows[label]; ok && current.cmd == cmd {
		delete(h.windows, label)
	}
	callbacks := append([]func(string){}, h.onDestroyed...)
	h.mu.Unlock()

	logging.FromContext(h.ctx).Debug().Err(err).Str("label", label).Msg("standalone window exited")
	for _, fn := range callbacks {
		fn(label)
	}
}

// SetTitle records the title of a child window. Terminal titles belong to
// the child, which retitles itself; the host keeps the value for listings.
func (h *ProcessHost) SetTitle(_ context.Context, label, title string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.windows[label]
	if !ok {
		return fmt.Errorf("set title %q: %w", label, ErrUnknownWindow)
	}
	w.title = title
	return nil
}

// Title returns the last title recorded for label.
func (h *ProcessHost) Title(label string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.windows[label]
	if !ok {
		return "", false
	}
	return w.title, true
}

// Focus is not available for terminal windows.
func (h *ProcessHost) Focus(_ context.Context, label string) error {
	return fmt.Errorf("focus %q: %w", label, errors.ErrUnsupported)
}

// Close terminates the window's process group. OnDestroyed fires once it exits.
func (h *ProcessHost) Close(ctx context.Context, label string) error {
	h.mu.Lock()
	w, ok := h.windows[label]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("close %q: %w", label, ErrUnknownWindow)
	}

	pid := w.cmd.Process.Pid
	if err := unix.Kill(-pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("close %q: %w", label, err)
	}
	logging.FromContext(ctx).Debug().Str("label", label).Int("pgid", pid).Msg("standalone window signalled")
	return nil
}

// CloseAll terminates every tracked window.
func (h *ProcessHost) CloseAll(ctx context.Context) {
	for _, label := range h.Labels() {
		if err := h.Close(ctx, label); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("label", label).Msg("close window failed")
		}
	}
}

// Labels returns the labels of live child windows.
func (h *ProcessHost) Labels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	labels := make([]string, 0, len(h.windows))
	for label := range h.windows {
		labels = append(labels, label)
	}
	return labels
}

// OnDestroyed registers a callback fired when a child window exits.
func (h *ProcessHost) OnDestroyed(fn func(label string)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDestroyed = append(h.onDestroyed, fn)
}
