package coordinator

import (
	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/samber/lo"
)

// ViewState is an immutable snapshot of a window for presentation.
type ViewState struct {
	Role        entity.WindowRole
	Loading     bool
	HasDocument bool
	File        string
	Title       string

	Page       int
	TotalPages int
	Chapter    string
	Zoom       float64
	ViewMode   entity.ViewMode

	Tabs         []entity.Tab
	ActiveTab    entity.TabID
	Windows      []entity.StandaloneWindow
	Bookmarks    []entity.Bookmark
	TOC          []entity.TOCEntry
	Bookmarked   bool
	CanGoBack    bool
	CanGoForward bool

	Search usecase.SearchState
}

// WindowTitle returns the title of the window in this state.
func (s ViewState) WindowTitle() string {
	if !s.HasDocument {
		return "lectern"
	}
	return entity.WindowTitle(s.Title, s.Page, s.Chapter)
}

// BookmarkedPages returns the bookmarked page numbers in display order.
func (s ViewState) BookmarkedPages() []int {
	return lo.Map(s.Bookmarks, func(b entity.Bookmark, _ int) int { return b.Page })
}

// Action is a menu action performed on the current window.
type Action int

const (
	ActionNextPage Action = iota
	ActionPrevPage
	ActionFirstPage
	ActionLastPage
	ActionBack
	ActionForward
	ActionZoomIn
	ActionZoomOut
	ActionZoomReset
	ActionToggleViewMode
	ActionNewTab
	ActionCloseTab
	ActionNextTab
	ActionPrevTab
	ActionNewWindow
	ActionMoveToTab
	ActionToggleBookmark
	ActionClearBookmarks
	ActionSearchNext
	ActionSearchPrev
	ActionSearchConfirm
	ActionSearchCancel
)

var actionNames = map[Action]string{
	ActionNextPage:       "next-page",
	ActionPrevPage:       "prev-page",
	ActionFirstPage:      "first-page",
	ActionLastPage:       "last-page",
	ActionBack:           "back",
	ActionForward:        "forward",
	ActionZoomIn:         "zoom-in",
	ActionZoomOut:        "zoom-out",
	ActionZoomReset:      "zoom-reset",
	ActionToggleViewMode: "toggle-view-mode",
	ActionNewTab:         "new-tab",
	ActionCloseTab:       "close-tab",
	ActionNextTab:        "next-tab",
	ActionPrevTab:        "prev-tab",
	ActionNewWindow:      "new-window",
	ActionMoveToTab:      "move-to-tab",
	ActionToggleBookmark: "toggle-bookmark",
	ActionClearBookmarks: "clear-bookmarks",
	ActionSearchNext:     "search-next",
	ActionSearchPrev:     "search-prev",
	ActionSearchConfirm:  "search-confirm",
	ActionSearchCancel:   "search-cancel",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
