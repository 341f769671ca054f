package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/ui/mainloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *mainloop.Loop {
	t.Helper()
	loop := mainloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(cancel)
	return loop
}

func searchState(t *testing.T, loop *mainloop.Loop, c *usecase.SearchCoordinator) usecase.SearchState {
	t.Helper()
	var st usecase.SearchState
	require.NoError(t, loop.Do(context.Background(), func() { st = c.State() }))
	return st
}

func waitFinished(t *testing.T, loop *mainloop.Loop, c *usecase.SearchCoordinator, query string) usecase.SearchState {
	t.Helper()
	assert.Eventually(t, func() bool {
		st := searchState(t, loop, c)
		return st.Query == query && !st.Searching
	}, 2*time.Second, 5*time.Millisecond)
	return searchState(t, loop, c)
}

func TestSearchCoordinator_FindsMatchesAndSetsCursor(t *testing.T) {
	loop := startLoop(t)
	c := usecase.NewSearchCoordinator(loop.Post, usecase.SearchOptions{}, nil)
	doc := &fakeDocument{pages: []string{"nothing here", "foo bar foo", "bar"}}

	require.NoError(t, loop.Do(context.Background(), func() { c.Search(testContext(), doc, "foo") }))
	st := waitFinished(t, loop, c, "foo")

	require.Len(t, st.Results, 2)
	for _, r := range st.Results {
		assert.Equal(t, 2, r.Page)
		assert.Equal(t, "foo", r.MatchText)
	}
	assert.Equal(t, 0, st.Results[0].MatchIndex)
	assert.Equal(t, 1, st.Results[1].MatchIndex)
	assert.Equal(t, 0, st.Cursor)
}

func TestSearchCoordinator_NewSearchSupersedesOld(t *testing.T) {
	loop := startLoop(t)
	c := usecase.NewSearchCoordinator(loop.Post, usecase.SearchOptions{YieldEvery: 1}, nil)
	gate := make(chan struct{})
	doc := &fakeDocument{pages: []string{"alpha", "beta"}, gate: gate}

	require.NoError(t, loop.Do(context.Background(), func() {
		c.Search(testContext(), doc, "alpha")
		c.Search(testContext(), doc, "beta")
	}))
	close(gate)

	st := waitFinished(t, loop, c, "beta")
	require.Len(t, st.Results, 1)
	assert.Equal(t, 2, st.Results[0].Page)
	assert.Equal(t, uint64(2), c.Generation())
}

func TestSearchCoordinator_NextPrevWrap(t *testing.T) {
	loop := startLoop(t)
	c := usecase.NewSearchCoordinator(loop.Post, usecase.SearchOptions{}, nil)
	doc := &fakeDocument{pages: []string{"x x", "x"}}

	require.NoError(t, loop.Do(context.Background(), func() { c.Search(testContext(), doc, "x") }))
	waitFinished(t, loop, c, "x")

	require.NoError(t, loop.Do(context.Background(), func() {
		r, ok := c.Prev()
		assert.True(t, ok)
		assert.Equal(t, 2, r.Page)

		r, ok = c.Next()
		assert.True(t, ok)
		assert.Equal(t, 1, r.Page)
		assert.Equal(t, 0, r.MatchIndex)

		c.Next()
		r, ok = c.Confirm()
		assert.True(t, ok)
		assert.Equal(t, 1, r.MatchIndex)
	}))
}

func TestSearchCoordinator_BlankQueryClears(t *testing.T) {
	var updates []usecase.SearchState
	c := usecase.NewSearchCoordinator(inlinePost, usecase.SearchOptions{}, func(st usecase.SearchState) {
		updates = append(updates, st)
	})

	c.Search(testContext(), &fakeDocument{pages: []string{"a"}}, "   ")

	st := c.State()
	assert.Empty(t, st.Results)
	assert.False(t, st.Searching)
	_, ok := c.Next()
	assert.False(t, ok)
	require.Len(t, updates, 1)
}

func TestSearchCoordinator_CancelStopsScan(t *testing.T) {
	loop := startLoop(t)
	c := usecase.NewSearchCoordinator(loop.Post, usecase.SearchOptions{YieldEvery: 1}, nil)
	gate := make(chan struct{})
	doc := &fakeDocument{pages: []string{"a", "a"}, gate: gate}

	require.NoError(t, loop.Do(context.Background(), func() {
		c.Search(testContext(), doc, "a")
		c.Cancel()
	}))
	close(gate)

	time.Sleep(20 * time.Millisecond)
	st := searchState(t, loop, c)
	assert.Empty(t, st.Query)
	assert.Empty(t, st.Results)
}
