package coordinator

import (
	"context"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/event"
	"github.com/bnema/lectern/internal/logging"
)

var _ usecase.SyncHandler = (*WindowCoordinator)(nil)

// ApplyPageChanged tracks a standalone window's page and retitles it.
func (c *WindowCoordinator) ApplyPageChanged(ctx context.Context, ev event.PageChanged) {
	w := c.registry.Find(ev.Label)
	if w == nil {
		logging.FromContext(ctx).Debug().Str("label", ev.Label).Msg("page change from unknown window")
		return
	}
	if !c.nav.InRange(ev.Page) {
		logging.FromContext(ctx).Warn().Str("label", ev.Label).Int("page", ev.Page).Msg("page change out of range dropped")
		return
	}
	w.Page = ev.Page
	w.Chapter = c.nav.Chapter(ev.Page)
	c.retitleWindow(ctx, w)
	c.markDirty()
	c.notify()
}

// ApplyStateChanged tracks a standalone window's zoom and layout.
func (c *WindowCoordinator) ApplyStateChanged(ctx context.Context, ev event.StateChanged) {
	w := c.registry.Find(ev.Label)
	if w == nil {
		logging.FromContext(ctx).Debug().Str("label", ev.Label).Msg("state change from unknown window")
		return
	}
	mode, err := entity.ParseViewMode(string(ev.ViewMode))
	if err != nil || !(ev.Zoom > 0) {
		logging.FromContext(ctx).Warn().Err(err).Str("label", ev.Label).Float64("zoom", ev.Zoom).
			Msg("invalid window state dropped")
		return
	}
	w.Zoom = ev.Zoom
	w.ViewMode = mode
	c.markDirty()
	c.notify()
}

// ApplyMoveToTab absorbs a standalone window as a new active tab.
func (c *WindowCoordinator) ApplyMoveToTab(ctx context.Context, ev event.MoveToTab) {
	if c.doc == nil {
		return
	}
	if _, err := c.moveToTab.Execute(ctx, usecase.MoveWindowToTabInput{
		Registry:  c.registry,
		Navigator: c.nav,
		Label:     ev.Label,
		Page:      ev.Page,
	}); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("label", ev.Label).Msg("move-to-tab rejected")
		return
	}
	c.retitleSelf(ctx)
	c.markDirty()
	c.notify()
}

// ApplyBookmarks replaces the local bookmarks with another window's set.
func (c *WindowCoordinator) ApplyBookmarks(ctx context.Context, ev event.BookmarksSynced) {
	if !c.bookmarks.ApplyRemote(ctx, ev) {
		return
	}
	c.markDirty()
	c.notify()
}
