package entity

import (
	"fmt"
	"time"
)

// Bookmark marks a page. CreatedAt is unix milliseconds.
type Bookmark struct {
	Page      int    `json:"page"`
	Label     string `json:"label"`
	CreatedAt int64  `json:"createdAt"`
}

// BookmarkSet holds at most one bookmark per page, in insertion order.
type BookmarkSet struct {
	items []Bookmark
	now   func() time.Time
}

// NewBookmarkSet creates an empty set.
func NewBookmarkSet() *BookmarkSet {
	return &BookmarkSet{items: make([]Bookmark, 0), now: time.Now}
}

// DefaultBookmarkLabel returns the label used when bookmarking a page.
func DefaultBookmarkLabel(page int, chapter string) string {
	if chapter != "" {
		return fmt.Sprintf("P%d: %s", page, chapter)
	}
	return fmt.Sprintf("Page %d", page)
}

// Toggle removes the bookmark on page if present, otherwise adds one.
// It reports whether the page is bookmarked afterwards.
func (s *BookmarkSet) Toggle(page int, label string) bool {
	if s.Remove(page) {
		return false
	}
	s.items = append(s.items, Bookmark{
		Page:      page,
		Label:     label,
		CreatedAt: s.now().UnixMilli(),
	})
	return true
}

// Remove deletes the bookmark on page and reports whether one existed.
func (s *BookmarkSet) Remove(page int) bool {
	for i, b := range s.items {
		if b.Page == page {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear deletes every bookmark and reports whether any existed.
func (s *BookmarkSet) Clear() bool {
	had := len(s.items) > 0
	s.items = s.items[:0]
	return had
}

// Has reports whether page is bookmarked.
func (s *BookmarkSet) Has(page int) bool {
	for _, b := range s.items {
		if b.Page == page {
			return true
		}
	}
	return false
}

// Replace overwrites the set with bookmarks received from elsewhere.
// Later duplicates of a page are dropped.
func (s *BookmarkSet) Replace(bookmarks []Bookmark) {
	s.items = make([]Bookmark, 0, len(bookmarks))
	seen := make(map[int]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		if _, dup := seen[b.Page]; dup {
			continue
		}
		seen[b.Page] = struct{}{}
		s.items = append(s.items, b)
	}
}

// List returns a copy of the bookmarks. It is never nil.
func (s *BookmarkSet) List() []Bookmark {
	out := make([]Bookmark, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of bookmarks.
func (s *BookmarkSet) Len() int { return len(s.items) }

// SetClock overrides the time source used for CreatedAt.
func (s *BookmarkSet) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}
