// Package cli wires the lectern dependencies shared by CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/cli/styles"
	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/infrastructure/config"
	"github.com/bnema/lectern/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/lectern/internal/logging"
)

const logFileName = "lectern.log"

// App holds CLI dependencies.
type App struct {
	Config  *config.Config
	Manager *config.Manager
	Theme   *styles.Theme
	DB      *sqlite.LazyDB

	Sessions repository.SessionRepository

	// Use cases
	ListSessionsUC    *usecase.ListSessionsUseCase
	DeleteSessionUC   *usecase.DeleteSessionUseCase
	CleanupSessionsUC *usecase.CleanupSessionsUseCase
	LastOpenedUC      *usecase.GetLastOpenedUseCase
	SnapshotUC        *usecase.SnapshotSessionUseCase
	RestoreUC         *usecase.RestoreSessionUseCase
	StartupUC         *usecase.StartupUseCase

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// Options controls how the app is initialized.
type Options struct {
	// FileLog sends logs to the rotating log file instead of stderr.
	// Set when the terminal belongs to the viewer.
	FileLog bool
}

// NewApp creates a new CLI application with all dependencies. The
// database is opened on first use.
func NewApp(opts Options) (*App, error) {
	mgr, cfg, cfgErr := loadConfig()

	logger, logCleanup, err := newLogger(cfg, opts.FileLog)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithContext(context.Background(), logger)
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("using default configuration")
	}

	dbFile := cfg.Database.Path
	if dbFile == "" {
		if dbFile, err = config.GetDatabaseFile(); err != nil {
			logCleanup()
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	db := sqlite.NewLazyDB(dbFile)
	sessions := sqlite.NewLazySessionRepository(db)
	lastOpened := usecase.NewGetLastOpenedUseCase(sessions)

	logger.Debug().Str("db_path", dbFile).Msg("database configured")

	return &App{
		Config:            cfg,
		Manager:           mgr,
		Theme:             styles.NewTheme(),
		DB:                db,
		Sessions:          sessions,
		ListSessionsUC:    usecase.NewListSessionsUseCase(sessions),
		DeleteSessionUC:   usecase.NewDeleteSessionUseCase(sessions),
		CleanupSessionsUC: usecase.NewCleanupSessionsUseCase(sessions),
		LastOpenedUC:      lastOpened,
		SnapshotUC:        usecase.NewSnapshotSessionUseCase(sessions),
		RestoreUC:         usecase.NewRestoreSessionUseCase(sessions),
		StartupUC:         usecase.NewStartupUseCase(lastOpened),
		ctx:               ctx,
		logCleanup:        logCleanup,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	err := a.DB.Close()
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// SetLogLevel changes the level of every logger in the process.
func (a *App) SetLogLevel(level string) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		logging.FromContext(a.ctx).Warn().Err(err).Msg("ignoring log level")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

// loadConfig loads configuration from standard locations. The defaults
// are returned with the error when loading fails.
func loadConfig() (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, config.DefaultConfig(), err
	}
	if err := mgr.Load(); err != nil {
		return mgr, config.DefaultConfig(), err
	}
	return mgr, mgr.Get(), nil
}

func newLogger(cfg *config.Config, fileLog bool) (zerolog.Logger, func(), error) {
	level := cfg.Logging.Level
	if env := os.Getenv("LECTERN_LOG_LEVEL"); env != "" {
		level = env
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	// The global level gates output so it can follow config reloads.
	zerolog.SetGlobalLevel(lvl)
	logCfg := logging.Config{Level: zerolog.TraceLevel, Format: cfg.Logging.Format, TimeFormat: "15:04:05"}
	if !fileLog {
		return logging.New(logCfg), func() {}, nil
	}

	if !cfg.Logging.EnableFileLog {
		return zerolog.Nop(), func() {}, nil
	}

	dir := cfg.Logging.LogDir
	if dir == "" {
		if dir, err = config.GetLogDir(); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("resolve log dir: %w", err)
		}
	}
	rotator, err := logging.NewLogRotator(filepath.Clean(dir), logFileName, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logCfg.Output = rotator
	logCfg.Format = "json"
	logger := logging.New(logCfg).With().Int("pid", os.Getpid()).Logger()
	return logger, func() { _ = rotator.Close() }, nil
}
