package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// MaxHistoryEntries bounds the navigation history.
const MaxHistoryEntries = 100

// HistoryEntry records a visit to a page.
type HistoryEntry struct {
	Page      int
	VisitedAt time.Time
}

type historyEntryJSON struct {
	Page      int    `json:"page"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON encodes the visit time as unix seconds in a string.
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyEntryJSON{
		Page:      e.Page,
		Timestamp: strconv.FormatInt(e.VisitedAt.Unix(), 10),
	})
}

// UnmarshalJSON accepts the unix-seconds string form. An unparsable
// timestamp decodes as the zero time rather than failing the record.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var raw historyEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode history entry: %w", err)
	}
	e.Page = raw.Page
	e.VisitedAt = time.Time{}
	if secs, err := strconv.ParseInt(raw.Timestamp, 10, 64); err == nil {
		e.VisitedAt = time.Unix(secs, 0)
	}
	return nil
}

// History is the back/forward stack of visited pages.
// Index is -1 when empty and always points inside entries otherwise.
type History struct {
	entries []HistoryEntry
	index   int
	now     func() time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{index: -1, now: time.Now}
}

// Push records a visit. Forward entries are discarded, any earlier visit
// to the same page in the retained prefix is dropped, and the oldest
// entries are evicted past MaxHistoryEntries.
func (h *History) Push(page int) {
	h.clamp()
	kept := make([]HistoryEntry, 0, h.index+2)
	for _, e := range h.entries[:h.index+1] {
		if e.Page != page {
			kept = append(kept, e)
		}
	}
	kept = append(kept, HistoryEntry{Page: page, VisitedAt: h.now()})
	if len(kept) > MaxHistoryEntries {
		kept = kept[len(kept)-MaxHistoryEntries:]
	}
	h.entries = kept
	h.index = min(len(kept)-1, MaxHistoryEntries-1)
}

// Back moves the cursor one step back and returns the page there.
func (h *History) Back() (int, bool) {
	h.clamp()
	if !h.CanGoBack() {
		return 0, false
	}
	h.index--
	return h.entries[h.index].Page, true
}

// Forward moves the cursor one step forward and returns the page there.
func (h *History) Forward() (int, bool) {
	h.clamp()
	if !h.CanGoForward() {
		return 0, false
	}
	h.index++
	return h.entries[h.index].Page, true
}

// CanGoBack reports whether Back would move.
func (h *History) CanGoBack() bool {
	h.clamp()
	return len(h.entries) > 0 && h.index > 0
}

// CanGoForward reports whether Forward would move.
func (h *History) CanGoForward() bool {
	h.clamp()
	return len(h.entries) > 0 && h.index < len(h.entries)-1
}

// Current returns the page under the cursor.
func (h *History) Current() (int, bool) {
	h.clamp()
	if h.index < 0 {
		return 0, false
	}
	return h.entries[h.index].Page, true
}

// Index returns the cursor position, -1 when empty.
func (h *History) Index() int {
	h.clamp()
	return h.index
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Pages returns the page numbers of all entries, oldest first.
func (h *History) Pages() []int {
	out := make([]int, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Page
	}
	return out
}

// Restore replaces the history with persisted entries. Only the newest
// MaxHistoryEntries are kept and the index is re-based and clamped.
func (h *History) Restore(entries []HistoryEntry, index int) {
	if over := len(entries) - MaxHistoryEntries; over > 0 {
		entries = entries[over:]
		index -= over
	}
	h.entries = make([]HistoryEntry, len(entries))
	copy(h.entries, entries)
	h.index = index
	h.clamp()
}

// Clear empties the history.
func (h *History) Clear() {
	h.entries = nil
	h.index = -1
}

// Snapshot returns the newest MaxHistoryEntries entries with the cursor
// re-based onto them.
func (h *History) Snapshot() ([]HistoryEntry, int) {
	h.clamp()
	entries := h.entries
	index := h.index
	if over := len(entries) - MaxHistoryEntries; over > 0 {
		entries = entries[over:]
		index -= over
	}
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	if len(out) == 0 {
		return out, -1
	}
	return out, max(0, min(index, len(out)-1))
}

func (h *History) clamp() {
	if len(h.entries) == 0 {
		h.index = -1
		return
	}
	if h.index < 0 {
		h.index = 0
	}
	if h.index > len(h.entries)-1 {
		h.index = len(h.entries) - 1
	}
}

// SetClock overrides the time source used for new entries.
func (h *History) SetClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}
