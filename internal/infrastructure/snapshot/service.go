package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/logging"
)

// DefaultDebounce is the delay between the last change and the save.
const DefaultDebounce = 500 * time.Millisecond

// Service handles debounced session saves for the main window.
type Service struct {
	snapshotUC *usecase.SnapshotSessionUseCase
	provider   port.SessionProvider
	interval   time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	dirty     bool
	restoring bool // changes made while a session is applied are not saved
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewService creates a new snapshot service.
func NewService(
	snapshotUC *usecase.SnapshotSessionUseCase,
	provider port.SessionProvider,
	intervalMs int,
) *Service {
	interval := DefaultDebounce
	if intervalMs > 0 {
		interval = time.Duration(intervalMs) * time.Millisecond
	}
	return &Service{
		snapshotUC: snapshotUC,
		provider:   provider,
		interval:   interval,
	}
}

// Start begins accepting changes.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(logging.WithComponent(ctx, "snapshot"))
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// SetRestoring suppresses saves while a stored session is being applied.
func (s *Service) SetRestoring(restoring bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoring = restoring
	if restoring && s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.dirty = false
	}
}

// Stop stops the service and saves final state.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	return s.SaveNow(ctx)
}

// MarkDirty signals that state has changed. Repeated calls within the
// debounce interval collapse into one save.
func (s *Service) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restoring || s.ctx == nil || s.ctx.Err() != nil {
		return
	}
	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil || ctx.Err() != nil {
			return
		}
		if err := s.save(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save session")
		}
	})
}

// Pending reports whether a change has not been saved yet.
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// SaveNow forces an immediate save of pending changes.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	return s.save(ctx)
}

func (s *Service) save(ctx context.Context) error {
	s.mu.Lock()
	if s.restoring {
		s.mu.Unlock()
		return nil
	}
	// Failed saves are not retried; the next change schedules a new one.
	s.dirty = false
	s.mu.Unlock()

	path, rec, err := s.provider.CaptureSession(ctx)
	if err != nil {
		return err
	}
	if path == "" || rec == nil {
		return nil
	}

	return s.snapshotUC.Execute(ctx, usecase.SnapshotInput{
		FilePath: path,
		Record:   rec,
	})
}
