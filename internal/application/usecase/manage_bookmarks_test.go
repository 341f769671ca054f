package usecase_test

import (
	"errors"
	"testing"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManageBookmarks_EveryMutationBroadcastsFullSet(t *testing.T) {
	ctx := testContext()
	bus := newFakeBus()
	uc := usecase.NewManageBookmarksUseCase(entity.NewBookmarkSet(), bus, "main")

	assert.True(t, uc.Toggle(ctx, 3, "Page 3"))
	assert.True(t, uc.Toggle(ctx, 5, "Page 5"))
	assert.True(t, uc.Remove(ctx, 3))
	assert.False(t, uc.Remove(ctx, 3))
	uc.Clear(ctx)

	published := bus.Published()
	require.Len(t, published, 4)

	decoded, err := published[1].Decode()
	require.NoError(t, err)
	synced := decoded.(event.BookmarksSynced)
	assert.Equal(t, "main", synced.SourceLabel)
	assert.Len(t, synced.Bookmarks, 2)

	last, err := published[3].Decode()
	require.NoError(t, err)
	assert.Empty(t, last.(event.BookmarksSynced).Bookmarks)
	assert.JSONEq(t, `{"bookmarks":[],"sourceLabel":"main"}`, string(published[3].Payload))
}

func TestManageBookmarks_ApplyRemoteIgnoresOwnEcho(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManageBookmarksUseCase(entity.NewBookmarkSet(), newFakeBus(), "page-2-a")
	uc.Toggle(ctx, 2, "Page 2")

	assert.False(t, uc.ApplyRemote(ctx, event.BookmarksSynced{SourceLabel: "page-2-a"}))
	assert.Equal(t, 1, uc.Set().Len())

	assert.True(t, uc.ApplyRemote(ctx, event.BookmarksSynced{
		SourceLabel: "main",
		Bookmarks:   []entity.Bookmark{{Page: 7, Label: "Page 7", CreatedAt: 1}},
	}))
	assert.Equal(t, []entity.Bookmark{{Page: 7, Label: "Page 7", CreatedAt: 1}}, uc.Set().List())
}

func TestManageBookmarks_PublishFailureKeepsLocalChange(t *testing.T) {
	ctx := testContext()
	bus := newFakeBus()
	bus.publishErr = errors.New("bus down")
	uc := usecase.NewManageBookmarksUseCase(entity.NewBookmarkSet(), bus, "main")

	assert.True(t, uc.Toggle(ctx, 1, "Page 1"))
	assert.True(t, uc.Set().Has(1))
}

func TestManageBookmarks_LoadDoesNotBroadcast(t *testing.T) {
	bus := newFakeBus()
	uc := usecase.NewManageBookmarksUseCase(entity.NewBookmarkSet(), bus, "main")
	uc.Load([]entity.Bookmark{{Page: 1}})

	assert.Empty(t, bus.Published())
	assert.Equal(t, 1, uc.Set().Len())
}
