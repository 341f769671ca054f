package entity

// TabID uniquely identifies a tab for the lifetime of the process.
type TabID uint64

// Tab is a view onto a page of the open document in the main window.
type Tab struct {
	ID    TabID
	Page  int
	Label string
}

// TabList manages an ordered collection of tabs.
// IDs come from a counter owned by the list and are never reused.
type TabList struct {
	tabs        []*Tab
	activeTabID TabID
	nextID      TabID
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{
		tabs:   make([]*Tab, 0),
		nextID: 1,
	}
}

// Add appends a tab for page and returns it. The first tab becomes active.
func (tl *TabList) Add(page int, label string) *Tab {
	tab := &Tab{ID: tl.nextID, Page: page, Label: label}
	tl.nextID++
	tl.tabs = append(tl.tabs, tab)
	if tl.activeTabID == 0 {
		tl.activeTabID = tab.ID
	}
	return tab
}

// Remove removes a tab by ID.
// When the active tab is removed the next tab is activated, or the
// previous one if it was last.
func (tl *TabList) Remove(id TabID) bool {
	for i, tab := range tl.tabs {
		if tab.ID != id {
			continue
		}
		tl.tabs = append(tl.tabs[:i], tl.tabs[i+1:]...)
		if tl.activeTabID == id {
			switch {
			case len(tl.tabs) == 0:
				tl.activeTabID = 0
			case i < len(tl.tabs):
				tl.activeTabID = tl.tabs[i].ID
			default:
				tl.activeTabID = tl.tabs[len(tl.tabs)-1].ID
			}
		}
		return true
	}
	return false
}

// Find returns a tab by ID.
func (tl *TabList) Find(id TabID) *Tab {
	for _, tab := range tl.tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

// Activate makes the tab with the given ID active.
func (tl *TabList) Activate(id TabID) bool {
	if tl.Find(id) == nil {
		return false
	}
	tl.activeTabID = id
	return true
}

// ActiveTab returns the currently active tab, or nil when empty.
func (tl *TabList) ActiveTab() *Tab {
	return tl.Find(tl.activeTabID)
}

// ActiveIndex returns the position of the active tab, or -1.
func (tl *TabList) ActiveIndex() int {
	for i, tab := range tl.tabs {
		if tab.ID == tl.activeTabID {
			return i
		}
	}
	return -1
}

// Neighbor returns the tab offset positions away from the active one,
// wrapping around both ends.
func (tl *TabList) Neighbor(offset int) *Tab {
	n := len(tl.tabs)
	if n == 0 {
		return nil
	}
	idx := tl.ActiveIndex()
	if idx < 0 {
		return tl.tabs[0]
	}
	return tl.tabs[((idx+offset)%n+n)%n]
}

// Tabs returns a copy of the tabs in display order.
func (tl *TabList) Tabs() []Tab {
	out := make([]Tab, 0, len(tl.tabs))
	for _, tab := range tl.tabs {
		out = append(out, *tab)
	}
	return out
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.tabs)
}

// Clear removes every tab. The ID counter keeps advancing.
func (tl *TabList) Clear() {
	tl.tabs = tl.tabs[:0]
	tl.activeTabID = 0
}
