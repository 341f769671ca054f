package usecase

import (
	"github.com/bnema/lectern/internal/domain/entity"
)

// Navigator owns the page position, history and tabs of one window.
//
// It is not safe for concurrent use: every call must happen on the
// owning window's main loop.
type Navigator struct {
	totalPages int
	toc        []entity.TOCEntry
	page       int
	history    *entity.History
	tabs       *entity.TabList
}

// NewNavigator creates a navigator with no document loaded.
func NewNavigator() *Navigator {
	return &Navigator{
		page:    1,
		history: entity.NewHistory(),
		tabs:    entity.NewTabList(),
	}
}

// Load resets navigation for a newly opened document.
func (n *Navigator) Load(totalPages int, toc []entity.TOCEntry) {
	n.totalPages = totalPages
	n.toc = toc
	n.page = 1
	n.history.Clear()
	n.tabs.Clear()
}

// Unload forgets the document. Tab IDs keep advancing.
func (n *Navigator) Unload() {
	n.Load(0, nil)
}

// Page returns the current page.
func (n *Navigator) Page() int { return n.page }

// TotalPages returns the page count of the loaded document.
func (n *Navigator) TotalPages() int { return n.totalPages }

// TOC returns the outline of the loaded document.
func (n *Navigator) TOC() []entity.TOCEntry { return n.toc }

// History exposes the back/forward stack.
func (n *Navigator) History() *entity.History { return n.history }

// Tabs exposes the tab list.
func (n *Navigator) Tabs() *entity.TabList { return n.tabs }

// InRange reports whether page exists in the loaded document.
func (n *Navigator) InRange(page int) bool {
	return page >= 1 && page <= n.totalPages
}

// Chapter returns the outline chapter containing page.
func (n *Navigator) Chapter(page int) string {
	return entity.ChapterForPage(n.toc, page)
}

// Label returns the tab label for page.
func (n *Navigator) Label(page int) string {
	return entity.TabLabel(n.toc, page)
}

// PushPage navigates to page and records it in history.
// Out-of-range pages are ignored and reported as false.
func (n *Navigator) PushPage(page int) bool {
	if !n.InRange(page) {
		return false
	}
	n.history.Push(page)
	n.setPage(page)
	return true
}

// ShowPage navigates to page without touching history. Used when
// browsing search results and switching tabs.
func (n *Navigator) ShowPage(page int) bool {
	if !n.InRange(page) {
		return false
	}
	n.setPage(page)
	return true
}

// GoBack moves one step back in history. An entry outside the document
// leaves the cursor where it was.
func (n *Navigator) GoBack() (int, bool) {
	page, ok := n.history.Back()
	if !ok {
		return 0, false
	}
	if !n.InRange(page) {
		n.history.Forward()
		return 0, false
	}
	n.setPage(page)
	return page, true
}

// GoForward moves one step forward in history.
func (n *Navigator) GoForward() (int, bool) {
	page, ok := n.history.Forward()
	if !ok {
		return 0, false
	}
	if !n.InRange(page) {
		n.history.Back()
		return 0, false
	}
	n.setPage(page)
	return page, true
}

// CanGoBack reports whether GoBack would move.
func (n *Navigator) CanGoBack() bool { return n.history.CanGoBack() }

// CanGoForward reports whether GoForward would move.
func (n *Navigator) CanGoForward() bool { return n.history.CanGoForward() }

// NextPage, PrevPage, FirstPage and LastPage are history-recording moves.
func (n *Navigator) NextPage() bool  { return n.PushPage(n.page + 1) }
func (n *Navigator) PrevPage() bool  { return n.PushPage(n.page - 1) }
func (n *Navigator) FirstPage() bool { return n.PushPage(1) }
func (n *Navigator) LastPage() bool  { return n.PushPage(n.totalPages) }

// Restore applies a saved session: page, history and tabs.
// The record must already be normalized.
func (n *Navigator) Restore(rec *entity.SessionRecord) {
	rec.RestoreHistory(n.history)
	rec.RestoreTabs(n.tabs)
	if n.InRange(rec.Page) {
		n.page = rec.Page
	}
	if tab := n.tabs.ActiveTab(); tab != nil && n.InRange(tab.Page) {
		n.page = tab.Page
	}
}

func (n *Navigator) setPage(page int) {
	n.page = page
	if tab := n.tabs.ActiveTab(); tab != nil {
		tab.Page = page
		tab.Label = n.Label(page)
	}
}
