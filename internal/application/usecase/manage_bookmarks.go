package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/event"
	"github.com/bnema/lectern/internal/logging"
)

// ManageBookmarksUseCase mutates a window's bookmark set and broadcasts
// the full set after every change.
//
// Like Navigator it is owned by a single main loop.
type ManageBookmarksUseCase struct {
	set   *entity.BookmarkSet
	bus   port.EventBus
	label string
}

// NewManageBookmarksUseCase creates the use case for the window with label.
func NewManageBookmarksUseCase(set *entity.BookmarkSet, bus port.EventBus, label string) *ManageBookmarksUseCase {
	return &ManageBookmarksUseCase{set: set, bus: bus, label: label}
}

// Set exposes the underlying bookmark set.
func (uc *ManageBookmarksUseCase) Set() *entity.BookmarkSet { return uc.set }

// Toggle adds or removes the bookmark on page and broadcasts.
// It reports whether page is bookmarked afterwards.
func (uc *ManageBookmarksUseCase) Toggle(ctx context.Context, page int, label string) bool {
	on := uc.set.Toggle(page, label)
	logging.FromContext(ctx).Debug().Int("page", page).Bool("bookmarked", on).Msg("bookmark toggled")
	uc.broadcast(ctx)
	return on
}

// Remove deletes the bookmark on page and broadcasts if it existed.
func (uc *ManageBookmarksUseCase) Remove(ctx context.Context, page int) bool {
	if !uc.set.Remove(page) {
		return false
	}
	uc.broadcast(ctx)
	return true
}

// Clear deletes every bookmark and broadcasts.
func (uc *ManageBookmarksUseCase) Clear(ctx context.Context) {
	uc.set.Clear()
	uc.broadcast(ctx)
}

// Load replaces the set with persisted bookmarks without broadcasting.
func (uc *ManageBookmarksUseCase) Load(bookmarks []entity.Bookmark) {
	uc.set.Replace(bookmarks)
}

// ApplyRemote replaces the set with bookmarks broadcast by another
// window. Events that originated here are ignored; it reports whether
// the set was replaced.
func (uc *ManageBookmarksUseCase) ApplyRemote(ctx context.Context, ev event.BookmarksSynced) bool {
	if ev.SourceLabel == uc.label {
		return false
	}
	uc.set.Replace(ev.Bookmarks)
	logging.FromContext(ctx).Debug().
		Str("source", ev.SourceLabel).
		Int("count", len(ev.Bookmarks)).
		Msg("bookmarks synced from peer")
	return true
}

func (uc *ManageBookmarksUseCase) broadcast(ctx context.Context) {
	if uc.bus == nil {
		return
	}
	if err := uc.publish(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to broadcast bookmarks")
	}
}

func (uc *ManageBookmarksUseCase) publish(ctx context.Context) error {
	env, err := event.Encode(event.BookmarkSync, event.BookmarksSynced{
		Bookmarks:   uc.set.List(),
		SourceLabel: uc.label,
	})
	if err != nil {
		return err
	}
	if err := uc.bus.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish %s: %w", event.BookmarkSync, err)
	}
	return nil
}
