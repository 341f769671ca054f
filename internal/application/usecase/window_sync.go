package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/event"
	"github.com/bnema/lectern/internal/logging"
)

// SyncHandler applies events accepted by a WindowSynchronizer.
// Every method runs on the window's main loop.
type SyncHandler interface {
	ApplyPageChanged(ctx context.Context, ev event.PageChanged)
	ApplyStateChanged(ctx context.Context, ev event.StateChanged)
	ApplyMoveToTab(ctx context.Context, ev event.MoveToTab)
	ApplyBookmarks(ctx context.Context, ev event.BookmarksSynced)
}

// WindowSynchronizer connects one window to the event bus.
//
// The main window subscribes to every event kind; standalone windows
// only to bookmark-sync. Page, state and move events are therefore only
// ever applied by main, and bookmark-sync events are dropped by the
// window that sent them.
type WindowSynchronizer struct {
	role entity.WindowRole
	bus  port.EventBus
	post func(func()) bool

	mu      sync.Mutex
	subs    []port.Subscription
	handler SyncHandler
	ctx     context.Context
}

// NewWindowSynchronizer creates a synchronizer that hands deliveries to
// the window's main loop through post.
func NewWindowSynchronizer(role entity.WindowRole, bus port.EventBus, post func(func()) bool) *WindowSynchronizer {
	return &WindowSynchronizer{role: role, bus: bus, post: post}
}

// Role returns the window role.
func (s *WindowSynchronizer) Role() entity.WindowRole { return s.role }

// Subscriptions returns the event kinds this window listens to.
func (s *WindowSynchronizer) Subscriptions() []event.Name {
	switch s.role.Kind() {
	case entity.RoleMain:
		return []event.Name{event.WindowPageChanged, event.WindowStateChanged, event.MoveWindowToTab, event.BookmarkSync}
	default:
		return []event.Name{event.BookmarkSync}
	}
}

// Start subscribes to the bus. Calling Start twice is an error.
func (s *WindowSynchronizer) Start(ctx context.Context, handler SyncHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs != nil {
		return fmt.Errorf("synchronizer already started")
	}
	s.handler = handler
	s.ctx = logging.WithComponent(ctx, "sync")

	subs := make([]port.Subscription, 0, 4)
	for _, name := range s.Subscriptions() {
		sub, err := s.bus.Subscribe(name, s.deliver)
		if err != nil {
			for _, prev := range subs {
				prev.Unsubscribe()
			}
			return fmt.Errorf("subscribe %s: %w", name, err)
		}
		subs = append(subs, sub)
	}
	s.subs = subs

	logging.FromContext(s.ctx).Debug().
		Str("role", s.role.String()).
		Int("subscriptions", len(subs)).
		Msg("window synchronizer started")
	return nil
}

// Stop releases every subscription.
func (s *WindowSynchronizer) Stop() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *WindowSynchronizer) deliver(env event.Envelope) {
	s.mu.Lock()
	ctx, handler := s.ctx, s.handler
	s.mu.Unlock()
	if handler == nil {
		return
	}

	if !s.post(func() { s.dispatch(ctx, handler, env) }) {
		logging.FromContext(ctx).Debug().Str("event", string(env.Event)).Msg("main loop stopped, event dropped")
	}
}

func (s *WindowSynchronizer) dispatch(ctx context.Context, handler SyncHandler, env event.Envelope) {
	defer logging.RecoverEvent(ctx, string(env.Event))

	payload, err := env.Decode()
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("event", string(env.Event)).Msg("dropping malformed event")
		return
	}

	switch ev := payload.(type) {
	case event.PageChanged:
		if s.role.IsMain() {
			handler.ApplyPageChanged(ctx, ev)
		}
	case event.StateChanged:
		if s.role.IsMain() {
			handler.ApplyStateChanged(ctx, ev)
		}
	case event.MoveToTab:
		if s.role.IsMain() {
			handler.ApplyMoveToTab(ctx, ev)
		}
	case event.BookmarksSynced:
		if ev.SourceLabel == s.role.Label() {
			return
		}
		handler.ApplyBookmarks(ctx, ev)
	}
}

// PublishPageChanged reports a standalone window's navigation to main.
// It does nothing in the main window.
func (s *WindowSynchronizer) PublishPageChanged(ctx context.Context, page int) error {
	if s.role.IsMain() {
		return nil
	}
	return s.publish(ctx, event.WindowPageChanged, event.PageChanged{Label: s.role.Label(), Page: page})
}

// PublishStateChanged reports a standalone window's zoom or layout to main.
// It does nothing in the main window.
func (s *WindowSynchronizer) PublishStateChanged(ctx context.Context, zoom float64, mode entity.ViewMode) error {
	if s.role.IsMain() {
		return nil
	}
	return s.publish(ctx, event.WindowStateChanged, event.StateChanged{Label: s.role.Label(), Zoom: zoom, ViewMode: mode})
}

// PublishMoveToTab asks main to absorb this standalone window as a tab.
func (s *WindowSynchronizer) PublishMoveToTab(ctx context.Context, page int) error {
	if s.role.IsMain() {
		return fmt.Errorf("main window cannot move to tab")
	}
	return s.publish(ctx, event.MoveWindowToTab, event.MoveToTab{Label: s.role.Label(), Page: page})
}

func (s *WindowSynchronizer) publish(ctx context.Context, name event.Name, payload any) error {
	env, err := event.Encode(name, payload)
	if err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}
