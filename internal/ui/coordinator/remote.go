package coordinator

import (
	"context"
	"errors"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
)

// ErrDocumentNotOpen is returned by document reads while no document is open.
var ErrDocumentNotOpen = errors.New("no document open")

// Remote drives a coordinator from a goroutine other than its loop, such
// as a terminal UI. Commands are posted and never block.
type Remote struct {
	c   *WindowCoordinator
	ctx context.Context
}

// Remote returns a handle whose commands run under ctx.
func (c *WindowCoordinator) Remote(ctx context.Context) *Remote {
	return &Remote{c: c, ctx: ctx}
}

func (r *Remote) post(fn func(ctx context.Context)) {
	r.c.loop.Post(func() { fn(r.ctx) })
}

// Perform posts a menu action.
func (r *Remote) Perform(action Action) {
	r.post(func(ctx context.Context) { r.c.Perform(ctx, action) })
}

// GoToPage posts a history-recording jump.
func (r *Remote) GoToPage(page int) {
	r.post(func(ctx context.Context) { r.c.GoToPage(ctx, page) })
}

// SelectTab posts a tab switch.
func (r *Remote) SelectTab(id entity.TabID) {
	r.post(func(ctx context.Context) { r.c.SelectTab(ctx, id) })
}

// Search posts a new full-text search.
func (r *Remote) Search(query string) {
	r.post(func(ctx context.Context) { r.c.Search(ctx, query) })
}

// OpenDocument posts a document open.
func (r *Remote) OpenDocument(path string) {
	r.post(func(ctx context.Context) { r.c.OpenDocument(ctx, path) })
}

// CloseDocument posts a document close.
func (r *Remote) CloseDocument() {
	r.post(func(ctx context.Context) { r.c.CloseDocument(ctx) })
}

// RemoveBookmark posts a bookmark removal.
func (r *Remote) RemoveBookmark(page int) {
	r.post(func(ctx context.Context) { r.c.RemoveBookmark(ctx, page) })
}

// PageText extracts the text of page from the open document. The lookup
// runs on the loop; the extraction runs on the caller's goroutine.
func (r *Remote) PageText(ctx context.Context, page int) (string, error) {
	var doc port.Document
	if err := r.c.loop.Do(ctx, func() { doc = r.c.doc }); err != nil {
		return "", err
	}
	if doc == nil {
		return "", ErrDocumentNotOpen
	}
	return doc.PageText(ctx, page)
}
