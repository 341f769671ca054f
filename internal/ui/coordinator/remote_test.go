package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemote_PageTextRequiresDocument(t *testing.T) {
	h := newHarness(t)
	r := h.c.Remote(context.Background())

	_, err := r.PageText(context.Background(), 1)
	require.ErrorIs(t, err, ErrDocumentNotOpen)
}

func TestRemote_DrivesWindow(t *testing.T) {
	h := newHarness(t).noSession()
	r := h.c.Remote(context.Background())

	r.OpenDocument(docPath)
	waitOpened(t, h.c)

	text, err := r.PageText(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "text of page 4", text)

	r.GoToPage(7)
	st := waitFor(t, h.c, func(st ViewState) bool { return st.Page == 7 })
	assert.True(t, st.CanGoBack)

	r.Perform(ActionBack)
	waitFor(t, h.c, func(st ViewState) bool { return st.Page == 1 })

	r.Perform(ActionToggleBookmark)
	waitFor(t, h.c, func(st ViewState) bool { return st.Bookmarked })
	r.RemoveBookmark(1)
	st = waitFor(t, h.c, func(st ViewState) bool { return !st.Bookmarked })
	assert.Empty(t, st.Bookmarks)

	r.CloseDocument()
	waitFor(t, h.c, func(st ViewState) bool { return !st.HasDocument })
}
