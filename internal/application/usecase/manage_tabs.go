package usecase

import (
	"github.com/bnema/lectern/internal/domain/entity"
)

// AddTab opens a tab on page, labels it from the outline and activates it.
// The current page follows the new tab without touching history.
func (n *Navigator) AddTab(page int) (*entity.Tab, bool) {
	if !n.InRange(page) {
		return nil, false
	}
	tab := n.tabs.Add(page, n.Label(page))
	n.tabs.Activate(tab.ID)
	n.page = page
	return tab, true
}

// EnsureTab creates a tab on the current page when there is none.
func (n *Navigator) EnsureTab() {
	if n.tabs.Count() == 0 && n.InRange(n.page) {
		n.AddTab(n.page)
	}
}

// CloseActiveTab closes the active tab. It reports true when that was
// the last tab and the document should be closed.
func (n *Navigator) CloseActiveTab() (closeDocument bool) {
	active := n.tabs.ActiveTab()
	if active == nil {
		return n.tabs.Count() == 0
	}
	n.tabs.Remove(active.ID)
	if n.tabs.Count() == 0 {
		return true
	}
	if tab := n.tabs.ActiveTab(); tab != nil {
		n.page = tab.Page
	}
	return false
}

// SelectTab activates a tab and shows its page.
func (n *Navigator) SelectTab(id entity.TabID) bool {
	if !n.tabs.Activate(id) {
		return false
	}
	n.page = n.tabs.ActiveTab().Page
	return true
}

// SelectNextTab activates the tab after the active one, wrapping around.
func (n *Navigator) SelectNextTab() bool {
	return n.selectNeighbor(1)
}

// SelectPrevTab activates the tab before the active one, wrapping around.
func (n *Navigator) SelectPrevTab() bool {
	return n.selectNeighbor(-1)
}

func (n *Navigator) selectNeighbor(offset int) bool {
	if n.tabs.Count() < 2 {
		return false
	}
	tab := n.tabs.Neighbor(offset)
	if tab == nil {
		return false
	}
	return n.SelectTab(tab.ID)
}
