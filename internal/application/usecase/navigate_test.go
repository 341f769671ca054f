package usecase_test

import (
	"context"
	"testing"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func loadedNavigator(totalPages int, toc []entity.TOCEntry) *usecase.Navigator {
	nav := usecase.NewNavigator()
	nav.Load(totalPages, toc)
	return nav
}

func TestNavigator_PushPageScenario(t *testing.T) {
	nav := loadedNavigator(10, nil)
	for _, p := range []int{1, 3, 5, 3, 7} {
		require.True(t, nav.PushPage(p))
	}

	assert.Equal(t, []int{1, 5, 3, 7}, nav.History().Pages())
	assert.Equal(t, 3, nav.History().Index())
	assert.Equal(t, 7, nav.Page())
}

func TestNavigator_OutOfRangeIsNoOp(t *testing.T) {
	nav := loadedNavigator(5, nil)
	require.True(t, nav.PushPage(2))

	assert.False(t, nav.PushPage(0))
	assert.False(t, nav.PushPage(6))
	assert.False(t, nav.ShowPage(-1))
	assert.Equal(t, 2, nav.Page())
	assert.Equal(t, 1, nav.History().Len())
}

func TestNavigator_BackForwardUpdatesActiveTab(t *testing.T) {
	toc := []entity.TOCEntry{{Title: "Intro", Page: 1}, {Title: "Body", Page: 4}}
	nav := loadedNavigator(10, toc)
	nav.EnsureTab()
	nav.PushPage(2)
	nav.PushPage(6)

	page, ok := nav.GoBack()
	require.True(t, ok)
	assert.Equal(t, 2, page)
	assert.Equal(t, "P2: Intro", nav.Tabs().ActiveTab().Label)
	assert.True(t, nav.CanGoForward())

	page, ok = nav.GoForward()
	require.True(t, ok)
	assert.Equal(t, 6, page)
	assert.Equal(t, "P6: Body", nav.Tabs().ActiveTab().Label)
	assert.False(t, nav.CanGoForward())
}

func TestNavigator_ShowPageSkipsHistory(t *testing.T) {
	nav := loadedNavigator(10, nil)
	nav.PushPage(1)
	nav.ShowPage(8)

	assert.Equal(t, 8, nav.Page())
	assert.Equal(t, []int{1}, nav.History().Pages())
}

func TestNavigator_RelativeMoves(t *testing.T) {
	nav := loadedNavigator(3, nil)

	assert.True(t, nav.LastPage())
	assert.Equal(t, 3, nav.Page())
	assert.False(t, nav.NextPage())
	assert.True(t, nav.PrevPage())
	assert.True(t, nav.FirstPage())
	assert.False(t, nav.PrevPage())
	assert.Equal(t, []int{3, 2, 1}, nav.History().Pages())
}

func TestNavigator_Restore(t *testing.T) {
	active := 1
	hidx := 1
	rec := &entity.SessionRecord{
		Page:           4,
		Tabs:           []entity.TabSnapshot{{Page: 2, Label: "Page 2"}, {Page: 7, Label: "Page 7"}},
		ActiveTabIndex: &active,
		PageHistory:    []entity.HistoryEntry{{Page: 2}, {Page: 7}},
		HistoryIndex:   &hidx,
	}
	rec.Normalize(10)

	nav := loadedNavigator(10, nil)
	nav.Restore(rec)

	assert.Equal(t, 7, nav.Page())
	assert.Equal(t, 2, nav.Tabs().Count())
	assert.True(t, nav.CanGoBack())
}

func TestNavigator_HistoryNeverLeavesDocument(t *testing.T) {
	nav := loadedNavigator(12, nil)
	hidx := 0
	nav.Restore(&entity.SessionRecord{
		Page:         3,
		PageHistory:  []entity.HistoryEntry{{Page: 3}, {Page: 40}},
		HistoryIndex: &hidx,
	})

	page, ok := nav.GoForward()
	assert.False(t, ok)
	assert.Zero(t, page)
	assert.Equal(t, 3, nav.Page())
	assert.Equal(t, 0, nav.History().Index())

	hidx = 1
	nav.Restore(&entity.SessionRecord{
		Page:         5,
		PageHistory:  []entity.HistoryEntry{{Page: 99}, {Page: 5}},
		HistoryIndex: &hidx,
	})

	_, ok = nav.GoBack()
	assert.False(t, ok)
	assert.Equal(t, 5, nav.Page())
	assert.Equal(t, 1, nav.History().Index())
}

func TestNavigator_RestoreNormalizedStaleHistory(t *testing.T) {
	hidx := 0
	rec := &entity.SessionRecord{
		Page:         3,
		PageHistory:  []entity.HistoryEntry{{Page: 3}, {Page: 40}},
		HistoryIndex: &hidx,
	}
	rec.Normalize(12)

	nav := loadedNavigator(12, nil)
	nav.Restore(rec)

	assert.False(t, nav.CanGoForward())
	assert.Equal(t, []int{3}, nav.History().Pages())
}
