package usecase_test

import (
	"testing"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_AddTabActivatesWithoutHistory(t *testing.T) {
	toc := []entity.TOCEntry{{Title: "Methods", Page: 5}}
	nav := loadedNavigator(20, toc)
	nav.PushPage(1)

	tab, ok := nav.AddTab(6)
	require.True(t, ok)
	assert.Equal(t, "P6: Methods", tab.Label)
	assert.Equal(t, tab.ID, nav.Tabs().ActiveTab().ID)
	assert.Equal(t, 6, nav.Page())
	assert.Equal(t, []int{1}, nav.History().Pages())

	_, ok = nav.AddTab(21)
	assert.False(t, ok)
}

func TestNavigator_CloseLastTabClosesDocument(t *testing.T) {
	nav := loadedNavigator(5, nil)
	nav.EnsureTab()
	require.Equal(t, 1, nav.Tabs().Count())

	assert.True(t, nav.CloseActiveTab())
	assert.Equal(t, 0, nav.Tabs().Count())
	assert.Nil(t, nav.Tabs().ActiveTab())
}

func TestNavigator_CloseTabShowsNeighbor(t *testing.T) {
	nav := loadedNavigator(10, nil)
	nav.AddTab(1)
	nav.AddTab(4)
	nav.AddTab(9)
	nav.SelectTab(nav.Tabs().Tabs()[1].ID)

	assert.False(t, nav.CloseActiveTab())
	assert.Equal(t, 9, nav.Page())
	assert.Equal(t, 2, nav.Tabs().Count())
}

func TestNavigator_SelectNextPrevWraps(t *testing.T) {
	nav := loadedNavigator(10, nil)
	first, _ := nav.AddTab(1)
	nav.AddTab(2)
	last, _ := nav.AddTab(3)

	require.True(t, nav.SelectNextTab())
	assert.Equal(t, first.ID, nav.Tabs().ActiveTab().ID)
	assert.Equal(t, 1, nav.Page())

	require.True(t, nav.SelectPrevTab())
	assert.Equal(t, last.ID, nav.Tabs().ActiveTab().ID)
	assert.Equal(t, 3, nav.Page())
}

func TestNavigator_SelectNeighborNeedsTwoTabs(t *testing.T) {
	nav := loadedNavigator(10, nil)
	nav.AddTab(1)
	assert.False(t, nav.SelectNextTab())
	assert.False(t, nav.SelectTab(42))
}

func TestNavigator_TabIDsUniqueAcrossReload(t *testing.T) {
	nav := loadedNavigator(10, nil)
	a, _ := nav.AddTab(1)
	nav.Load(10, nil)
	b, _ := nav.AddTab(1)
	assert.NotEqual(t, a.ID, b.ID)
}
