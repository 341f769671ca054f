package entity

import (
	"path/filepath"
	"slices"
	"time"
)

// DefaultZoom is the zoom of a window with no saved state.
const DefaultZoom = 1.0

// SessionRecord is the persisted view state of one document, keyed by
// its absolute path. Field names match the stored JSON.
type SessionRecord struct {
	Name           string           `json:"name,omitempty"`
	LastOpened     int64            `json:"lastOpened"`
	Page           int              `json:"page"`
	Zoom           float64          `json:"zoom"`
	ViewMode       ViewMode         `json:"viewMode"`
	ActiveTabIndex *int             `json:"activeTabIndex"`
	Tabs           []TabSnapshot    `json:"tabs"`
	Windows        []WindowSnapshot `json:"windows"`
	Bookmarks      []Bookmark       `json:"bookmarks"`
	PageHistory    []HistoryEntry   `json:"pageHistory,omitempty"`
	HistoryIndex   *int             `json:"historyIndex,omitempty"`
}

// TabSnapshot is the persisted form of a tab. IDs are not persisted.
type TabSnapshot struct {
	Page  int    `json:"page"`
	Label string `json:"label"`
}

// WindowSnapshot is the persisted form of a standalone window.
type WindowSnapshot struct {
	Page     int      `json:"page"`
	Zoom     float64  `json:"zoom"`
	ViewMode ViewMode `json:"viewMode"`
}

// RecentFile is a document listed by recency of access.
type RecentFile struct {
	FilePath   string    `json:"filePath"`
	Name       string    `json:"name"`
	LastOpened time.Time `json:"lastOpened"`
}

// SessionSource is the live state a SessionRecord is built from.
type SessionSource struct {
	Path      string
	Page      int
	Zoom      float64
	ViewMode  ViewMode
	Tabs      *TabList
	Windows   *WindowRegistry
	History   *History
	Bookmarks *BookmarkSet
	Now       time.Time
}

// SnapshotSession builds a SessionRecord from live state.
func SnapshotSession(src SessionSource) *SessionRecord {
	if src.Now.IsZero() {
		src.Now = time.Now()
	}
	rec := &SessionRecord{
		Name:       filepath.Base(src.Path),
		LastOpened: src.Now.Unix(),
		Page:       src.Page,
		Zoom:       src.Zoom,
		ViewMode:   src.ViewMode,
		Tabs:       []TabSnapshot{},
		Windows:    []WindowSnapshot{},
		Bookmarks:  []Bookmark{},
	}

	if src.Tabs != nil {
		for _, tab := range src.Tabs.Tabs() {
			rec.Tabs = append(rec.Tabs, TabSnapshot{Page: tab.Page, Label: tab.Label})
		}
		if idx := src.Tabs.ActiveIndex(); idx >= 0 {
			rec.ActiveTabIndex = &idx
		}
	}
	if src.Windows != nil {
		for _, w := range src.Windows.All() {
			rec.Windows = append(rec.Windows, WindowSnapshot{Page: w.Page, Zoom: w.Zoom, ViewMode: w.ViewMode})
		}
	}
	if src.Bookmarks != nil {
		rec.Bookmarks = src.Bookmarks.List()
	}
	if src.History != nil {
		entries, idx := src.History.Snapshot()
		if len(entries) > 0 {
			rec.PageHistory = entries
			rec.HistoryIndex = &idx
		}
	}
	return rec
}

// Normalize replaces out-of-range values with defaults. totalPages <= 0
// skips the upper page bound.
func (r *SessionRecord) Normalize(totalPages int) {
	if r.Page < 1 || (totalPages > 0 && r.Page > totalPages) {
		r.Page = 1
	}
	if r.Zoom <= 0 {
		r.Zoom = DefaultZoom
	}
	r.ViewMode = ViewModeOrDefault(string(r.ViewMode))
	for i := range r.Tabs {
		r.Tabs[i].Page = clampPage(r.Tabs[i].Page, totalPages)
	}
	for i := range r.Windows {
		r.Windows[i].Page = clampPage(r.Windows[i].Page, totalPages)
		if r.Windows[i].Zoom <= 0 {
			r.Windows[i].Zoom = DefaultZoom
		}
		r.Windows[i].ViewMode = ViewModeOrDefault(string(r.Windows[i].ViewMode))
	}
	if r.ActiveTabIndex != nil && (*r.ActiveTabIndex < 0 || *r.ActiveTabIndex >= len(r.Tabs)) {
		r.ActiveTabIndex = nil
	}
	r.Bookmarks = slices.DeleteFunc(r.Bookmarks, func(b Bookmark) bool {
		return !pageInRange(b.Page, totalPages)
	})
	r.normalizeHistory(totalPages)
}

// normalizeHistory drops out-of-range entries and rebases the cursor onto
// the nearest kept entry at or before it.
func (r *SessionRecord) normalizeHistory(totalPages int) {
	idx := len(r.PageHistory) - 1
	if r.HistoryIndex != nil {
		idx = *r.HistoryIndex
	}
	kept := r.PageHistory[:0]
	newIdx := -1
	for i, e := range r.PageHistory {
		if !pageInRange(e.Page, totalPages) {
			continue
		}
		kept = append(kept, e)
		if i <= idx {
			newIdx = len(kept) - 1
		}
	}
	if len(kept) == 0 {
		r.PageHistory = nil
		r.HistoryIndex = nil
		return
	}
	if newIdx < 0 {
		newIdx = 0
	}
	r.PageHistory = kept
	r.HistoryIndex = &newIdx
}

func pageInRange(page, totalPages int) bool {
	return page >= 1 && (totalPages <= 0 || page <= totalPages)
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages > 0 && page > totalPages {
		return totalPages
	}
	return page
}

// RestoreTabs rebuilds tabs from the record into tl with fresh IDs and
// activates the saved active tab.
func (r *SessionRecord) RestoreTabs(tl *TabList) {
	tl.Clear()
	var active TabID
	for i, snap := range r.Tabs {
		tab := tl.Add(snap.Page, snap.Label)
		if r.ActiveTabIndex != nil && *r.ActiveTabIndex == i {
			active = tab.ID
		}
	}
	if active != 0 {
		tl.Activate(active)
	}
}

// RestoreHistory loads the saved history into h.
func (r *SessionRecord) RestoreHistory(h *History) {
	if len(r.PageHistory) == 0 {
		h.Clear()
		return
	}
	idx := len(r.PageHistory) - 1
	if r.HistoryIndex != nil {
		idx = *r.HistoryIndex
	}
	h.Restore(r.PageHistory, idx)
}
