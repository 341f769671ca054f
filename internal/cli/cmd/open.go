package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/cli"
	"github.com/bnema/lectern/internal/cli/model"
	"github.com/bnema/lectern/internal/infrastructure/config"
	"github.com/bnema/lectern/internal/infrastructure/desktop"
	"github.com/bnema/lectern/internal/infrastructure/eventbus"
	"github.com/bnema/lectern/internal/infrastructure/pdf"
	"github.com/bnema/lectern/internal/infrastructure/snapshot"
	"github.com/bnema/lectern/internal/logging"
	"github.com/bnema/lectern/internal/ui/coordinator"
	"github.com/bnema/lectern/internal/ui/mainloop"
)

// busRoomEnv hands the relay room of a main window to its children.
const busRoomEnv = "LECTERN_BUS_ROOM"

const shutdownTimeout = 5 * time.Second

var openLaunch string

var openCmd = &cobra.Command{
	Use:   "open [file]",
	Short: "Open a PDF in the viewer",
	Long: `Open a PDF in a new main window.

Without a file the last opened document is reopened. The saved session
of the document (page, zoom, tabs, pop-out windows and bookmarks) is
restored.

Examples:
  lectern open                   # Reopen the last document
  lectern open paper.pdf         # Open paper.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().StringVar(&openLaunch, "launch", "", "window launch parameters")
	_ = openCmd.Flags().MarkHidden("launch")
}

func runOpen(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opened string
	if len(args) > 0 {
		opened = args[0]
	}

	plan, err := app.StartupUC.Execute(ctx, usecase.StartupInput{Query: openLaunch, OpenedFile: opened})
	if err != nil {
		return err
	}

	if plan.Role.IsMain() {
		app.CleanupSessionsUC.Execute(ctx, usecase.CleanupSessionsInput{
			MaxStoredSessions: app.Config.Session.MaxStoredSessions,
		})
	}

	watchConfig(app)
	return runViewer(ctx, app, plan)
}

// runViewer runs one window until it is closed or ctx is cancelled.
func runViewer(ctx context.Context, app *cli.App, plan *usecase.StartupPlan) error {
	cfg := app.Config
	ctx = logging.WithWindowLabel(ctx, plan.Role.Label())
	if plan.File != "" {
		ctx = logging.WithDocument(ctx, plan.File)
	}
	log := logging.FromContext(ctx)

	// Cleanup must outlive a cancelled ctx.
	loopCtx := context.WithoutCancel(ctx)

	room := windowRoom(plan, os.Getenv(busRoomEnv), os.Getpid())
	bus, err := eventbus.Connect(loopCtx, eventbus.ClientConfig{
		Address: cfg.Bus.Address,
		Path:    cfg.Bus.Path,
		Room:    room,
		Label:   plan.Role.Label(),
		Host:    true,
	})
	if err != nil {
		return fmt.Errorf("join window bus: %w", err)
	}
	defer func() { _ = bus.Close() }()

	host, err := desktop.NewProcessHost(loopCtx, desktop.ProcessHostConfig{
		Launcher: cfg.Windows.Launcher,
		Env:      []string{busRoomEnv + "=" + room},
	})
	if err != nil {
		return fmt.Errorf("create window host: %w", err)
	}

	loop, platform := mainloop.New(), mainloop.New()
	var g errgroup.Group
	g.Go(func() error { return loop.Run(loopCtx) })
	g.Go(func() error { return platform.Run(loopCtx) })
	defer func() {
		loop.Stop()
		platform.Stop()
		_ = g.Wait()
	}()

	shell := model.NewShell()
	coord, err := coordinator.New(coordinator.Config{
		Role:     plan.Role,
		Loop:     loop,
		Platform: platform,
		Bus:      bus,
		Loader:   pdf.NewLoader(),
		Host:     host,
		Shell:    shell,
		Restore:  app.RestoreUC,
		Initial:  plan.Initial,
		Search: usecase.SearchOptions{
			ContextChars: cfg.Search.ContextChars,
			YieldEvery:   cfg.Search.YieldEveryPages,
		},
		DefaultZoom: cfg.Viewer.DefaultZoom,
		ZoomStep:    cfg.Viewer.ZoomStep,
	})
	if err != nil {
		return err
	}
	coord.OnChange(shell.StateChanged)

	var saver *snapshot.Service
	if plan.Role.IsMain() {
		saver = snapshot.NewService(app.SnapshotUC, coord, cfg.Session.SaveDebounceMs)
		saver.Start(loopCtx)
		coord.SetSessionSaver(saver)
	}

	var startErr error
	if err := loop.Do(ctx, func() {
		if startErr = coord.Start(loopCtx); startErr == nil && plan.File != "" {
			coord.OpenDocument(loopCtx, plan.File)
		}
	}); err != nil {
		return err
	}
	if startErr != nil {
		return fmt.Errorf("start window: %w", startErr)
	}

	log.Info().Str("role", plan.Role.String()).Str("room", room).Msg("window started")

	viewer := model.NewViewerModel(loopCtx, app.Theme, coord.Remote(loopCtx))
	program := tea.NewProgram(viewer, tea.WithAltScreen(), tea.WithContext(ctx))
	shell.Attach(program)

	_, runErr := program.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) {
		runErr = nil
	}

	shutdownCtx, cancel := context.WithTimeout(loopCtx, shutdownTimeout)
	defer cancel()

	if saver != nil {
		if err := saver.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("final session save failed")
		}
	}
	if err := loop.Do(shutdownCtx, func() { coord.Shutdown(shutdownCtx) }); err != nil {
		log.Warn().Err(err).Msg("window shutdown incomplete")
	}

	log.Info().Msg("window closed")
	return runErr
}

// windowRoom returns the relay room of a window. Each main window owns a
// room shared with the standalone windows it spawns, which inherit it
// through the environment. Main windows never join an inherited room so
// independent main windows stay independent.
func windowRoom(plan *usecase.StartupPlan, inherited string, pid int) string {
	if !plan.Role.IsMain() {
		if inherited != "" {
			return inherited
		}
		return eventbus.RoomKey(plan.File)
	}
	return eventbus.RoomKey(plan.File + "#" + strconv.Itoa(pid))
}

func watchConfig(app *cli.App) {
	if app.Manager == nil {
		return
	}
	log := logging.FromContext(app.Ctx())
	if err := app.Manager.Watch(); err != nil {
		log.Debug().Err(err).Msg("config watch unavailable")
		return
	}
	app.Manager.OnConfigChange(func(cfg *config.Config) {
		app.SetLogLevel(cfg.Logging.Level)
		log.Info().Str("level", cfg.Logging.Level).Msg("log level reloaded")
	})
}

// reopen replaces the current process with a viewer on path.
func reopen(path string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if app := GetApp(); app != nil {
		_ = app.Close()
	}
	return syscall.Exec(exe, []string{exe, "open", path}, os.Environ())
}
