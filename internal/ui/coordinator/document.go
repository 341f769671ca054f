package coordinator

import (
	"context"
	"errors"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
)

// OpenDocument loads path off the loop and applies it when ready. A main
// window that already shows a document opens path in a new main window.
// Load failures raise exactly one alert through the shell.
func (c *WindowCoordinator) OpenDocument(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if c.doc != nil && c.role.IsMain() {
		c.OpenInNewWindow(ctx, path)
		return
	}

	c.openSeq++
	seq := c.openSeq
	c.loading = true
	c.notify()

	loader := c.loader
	go func() {
		doc, err := loader.Open(ctx, path)
		if !c.loop.Post(func() { c.documentLoaded(ctx, seq, path, doc, err) }) && doc != nil {
			_ = doc.Close()
		}
	}()
}

// OpenInNewWindow starts an independent main window on path.
func (c *WindowCoordinator) OpenInNewWindow(ctx context.Context, path string) {
	if c.host == nil {
		return
	}
	host := c.host
	c.platform(func() {
		if err := host.OpenMain(ctx, path); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("file", path).Msg("failed to open main window")
		}
	})
}

func (c *WindowCoordinator) documentLoaded(ctx context.Context, seq uint64, path string, doc port.Document, err error) {
	log := logging.FromContext(ctx).With().Str("file", path).Logger()

	if seq != c.openSeq {
		// Superseded by a later open.
		if doc != nil {
			_ = doc.Close()
		}
		return
	}
	c.loading = false

	if err != nil {
		log.Error().Err(err).Msg("failed to open document")
		c.notify()
		c.shell.Alert(ctx, "Could not open document", err.Error())
		return
	}

	c.doc = doc
	c.closed = nil
	c.nav.Load(doc.PageCount(), doc.TableOfContents())
	c.search.Cancel()

	switch c.role.Kind() {
	case entity.RoleMain:
		c.restoreMain(ctx)
	default:
		c.restoreStandalone(ctx)
	}

	log.Info().
		Int("pages", doc.PageCount()).
		Int("tabs", c.nav.Tabs().Count()).
		Int("bookmarks", c.bookmarks.Set().Len()).
		Msg("document opened")

	c.retitleSelf(ctx)
	c.notify()
}

// restoreMain applies the saved session, or defaults when there is none
// or it cannot be read, then respawns the standalone windows it lists.
func (c *WindowCoordinator) restoreMain(ctx context.Context) {
	log := logging.FromContext(ctx)

	if c.saver != nil {
		c.saver.SetRestoring(true)
	}

	rec := c.loadSession(ctx)
	c.zoom = rec.Zoom
	c.viewMode = rec.ViewMode
	c.nav.Restore(rec)
	c.nav.EnsureTab()
	if c.nav.History().Len() == 0 {
		c.nav.PushPage(c.nav.Page())
	}
	c.bookmarks.Load(rec.Bookmarks)

	for _, w := range rec.Windows {
		c.spawn(ctx, port.StandaloneSpec{
			Label:    c.newLabel(w.Page),
			File:     c.doc.Path(),
			Page:     w.Page,
			Zoom:     w.Zoom,
			ViewMode: w.ViewMode,
		})
	}

	if c.saver != nil {
		c.saver.SetRestoring(false)
		// Record the open so last_opened moves forward.
		c.saver.MarkDirty()
	}

	log.Debug().Int("page", c.nav.Page()).Int("windows", len(rec.Windows)).Msg("session applied")
}

func (c *WindowCoordinator) loadSession(ctx context.Context) *entity.SessionRecord {
	rec := usecase.DefaultSessionRecord()
	rec.Zoom = c.defaultZoom
	if c.restore == nil {
		return rec
	}

	out, err := c.restore.Execute(ctx, usecase.RestoreInput{FilePath: c.doc.Path(), TotalPages: c.doc.PageCount()})
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return rec
	case err != nil:
		logging.FromContext(ctx).Warn().Err(err).Msg("session restore failed, using defaults")
		return rec
	}
	return out.Record
}

// restoreStandalone applies the launch parameters. Bookmarks are read from
// the saved session; standalone windows never write it.
func (c *WindowCoordinator) restoreStandalone(ctx context.Context) {
	page := 1
	if c.initial != nil {
		if c.initial.Zoom > 0 {
			c.zoom = c.initial.Zoom
		}
		c.viewMode = entity.ViewModeOrDefault(string(c.initial.ViewMode))
		if c.nav.InRange(c.initial.Page) {
			page = c.initial.Page
		}
	}
	c.nav.PushPage(page)

	if c.restore == nil {
		return
	}
	out, err := c.restore.Execute(ctx, usecase.RestoreInput{FilePath: c.doc.Path(), TotalPages: c.doc.PageCount()})
	if err != nil {
		if !errors.Is(err, usecase.ErrSessionNotFound) {
			logging.FromContext(ctx).Debug().Err(err).Msg("no bookmarks for standalone window")
		}
		return
	}
	c.bookmarks.Load(out.Record.Bookmarks)
}

// CloseDocument returns the window to its no-document state. The final
// session record of a main window is kept for the pending save.
func (c *WindowCoordinator) CloseDocument(ctx context.Context) {
	if c.doc == nil {
		return
	}
	if c.role.IsMain() {
		c.closed = &closedSession{path: c.doc.Path(), record: c.sessionRecord()}
		c.markDirty()
	}

	c.search.Cancel()
	if err := c.doc.Close(); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("document close failed")
	}
	c.doc = nil
	c.nav.Unload()
	c.bookmarks.Load(nil)
	c.zoom = c.defaultZoom
	c.viewMode = entity.ViewModeSingle

	c.shell.CloseDocument(ctx)
	c.shell.SetTitle(ctx, "lectern")
	c.notify()
}
