package coordinator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/event"
	repomocks "github.com/bnema/lectern/internal/domain/repository/mocks"
	"github.com/bnema/lectern/internal/infrastructure/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const docPath = "/docs/paper.pdf"

type harness struct {
	c      *WindowCoordinator
	hub    *eventbus.Hub
	doc    *fakeDocument
	loader *fakeLoader
	host   *fakeHost
	shell  *fakeShell
	saver  *fakeSaver
	repo   *repomocks.MockSessionRepository
}

type harnessOption func(*Config)

func withInitial(p usecase.LaunchParams) harnessOption {
	return func(cfg *Config) { cfg.Initial = &p }
}

func withRole(role entity.WindowRole) harnessOption {
	return func(cfg *Config) { cfg.Role = role }
}

func withSharedDocument(h *harness) harnessOption {
	return func(cfg *Config) { cfg.Loader = h.loader; cfg.Bus = h.hub }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	hub := eventbus.NewHub()
	t.Cleanup(hub.Close)

	doc := newDocument(docPath, 12)
	h := &harness{
		hub:    hub,
		doc:    doc,
		loader: &fakeLoader{docs: map[string]*fakeDocument{docPath: doc}},
		host:   newFakeHost(),
		shell:  &fakeShell{},
		saver:  &fakeSaver{},
		repo:   repomocks.NewMockSessionRepository(t),
	}

	labels := 0
	cfg := Config{
		Role:     entity.MainRole(),
		Loop:     startLoop(t),
		Platform: startLoop(t),
		Bus:      hub,
		Loader:   h.loader,
		Host:     h.host,
		Shell:    h.shell,
		Restore:  usecase.NewRestoreSessionUseCase(h.repo),
		NewLabel: func(page int) string {
			labels++
			return fmt.Sprintf("page-%d-t%d", page, labels)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if hub, ok := cfg.Bus.(*eventbus.Hub); ok {
		h.hub = hub
	}

	c, err := New(cfg)
	require.NoError(t, err)
	c.SetSessionSaver(h.saver)
	on(t, c, func() { require.NoError(t, c.Start(context.Background())) })
	h.c = c
	return h
}

func (h *harness) noSession() *harness {
	h.repo.EXPECT().Get(mock.Anything, docPath).Return(nil, nil).Maybe()
	return h
}

func (h *harness) open(t *testing.T) ViewState {
	t.Helper()
	on(t, h.c, func() { h.c.OpenDocument(context.Background(), docPath) })
	return waitOpened(t, h.c)
}

func (h *harness) popOut(t *testing.T, page, want int) string {
	t.Helper()
	on(t, h.c, func() { h.c.PopOut(context.Background(), page) })
	st := waitFor(t, h.c, func(st ViewState) bool { return len(st.Windows) == want })
	return st.Windows[want-1].Label
}

type recorder struct {
	mu   sync.Mutex
	envs []event.Envelope
}

func record(t *testing.T, hub *eventbus.Hub, names ...event.Name) *recorder {
	t.Helper()
	r := &recorder{}
	for _, name := range names {
		sub, err := hub.Subscribe(name, func(env event.Envelope) {
			r.mu.Lock()
			r.envs = append(r.envs, env)
			r.mu.Unlock()
		})
		require.NoError(t, err)
		t.Cleanup(sub.Unsubscribe)
	}
	return r
}

func (r *recorder) waitFor(t *testing.T, name event.Name) any {
	t.Helper()
	var payload any
	assert.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, env := range r.envs {
			if env.Event == name {
				decoded, err := env.Decode()
				payload = decoded
				return err == nil
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	return payload
}

func TestMainWindow_OpenWithoutSession(t *testing.T) {
	h := newHarness(t).noSession()
	st := h.open(t)

	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 12, st.TotalPages)
	require.Len(t, st.Tabs, 1)
	assert.Equal(t, "Page 1", st.Tabs[0].Label)
	assert.Equal(t, st.Tabs[0].ID, st.ActiveTab)
	assert.InDelta(t, 1.0, st.Zoom, 1e-9)
	assert.Equal(t, entity.ViewModeSingle, st.ViewMode)
	assert.Equal(t, "Page 1 - Paper", h.shell.lastTitle())
	assert.Equal(t, []bool{true, false}, h.saver.restoring)
	assert.Positive(t, h.saver.dirtyCount())
}

func TestMainWindow_OpenFailureAlertsOnce(t *testing.T) {
	h := newHarness(t)

	on(t, h.c, func() { h.c.OpenDocument(context.Background(), "/docs/missing.pdf") })
	st := waitFor(t, h.c, func(st ViewState) bool { return !st.Loading && h.shell.alertCount() == 1 })

	assert.False(t, st.HasDocument)
	assert.Equal(t, 1, h.shell.alertCount())
	assert.Empty(t, st.Tabs)
}

func TestMainWindow_RestoresSessionAndWindows(t *testing.T) {
	h := newHarness(t)
	active := 0
	h.repo.EXPECT().Get(mock.Anything, docPath).Return(&entity.SessionRecord{
		Page:           4,
		Zoom:           1.5,
		ViewMode:       entity.ViewModeTwoColumn,
		Tabs:           []entity.TabSnapshot{{Page: 4, Label: "Page 4"}, {Page: 7, Label: "Page 7"}},
		ActiveTabIndex: &active,
		Windows:        []entity.WindowSnapshot{{Page: 6, Zoom: 2, ViewMode: entity.ViewModeSingle}},
		Bookmarks:      []entity.Bookmark{{Page: 2, Label: "Page 2", CreatedAt: 1}},
	}, nil).Once()

	h.open(t)
	st := waitFor(t, h.c, func(st ViewState) bool { return len(st.Windows) == 1 })

	assert.Equal(t, 4, st.Page)
	assert.InDelta(t, 1.5, st.Zoom, 1e-9)
	assert.Equal(t, entity.ViewModeTwoColumn, st.ViewMode)
	assert.Len(t, st.Tabs, 2)
	assert.Equal(t, []int{2}, st.BookmarkedPages())

	specs := h.host.openedSpecs()
	require.Len(t, specs, 1)
	assert.Equal(t, "page-6-t1", specs[0].Label)
	assert.Equal(t, 6, specs[0].Page)
	assert.InDelta(t, 2.0, specs[0].Zoom, 1e-9)
	assert.Equal(t, docPath, specs[0].File)
}

func TestMainWindow_RestoreFailureFallsBackToDefaults(t *testing.T) {
	h := newHarness(t)
	h.repo.EXPECT().Get(mock.Anything, docPath).Return(nil, fmt.Errorf("disk on fire")).Once()

	st := h.open(t)
	assert.Equal(t, 1, st.Page)
	assert.InDelta(t, 1.0, st.Zoom, 1e-9)
	assert.Equal(t, entity.ViewModeSingle, st.ViewMode)
	assert.Zero(t, h.shell.alertCount())
}

func TestMainWindow_MoveWindowToTab(t *testing.T) {
	h := newHarness(t).noSession()
	h.c.newLabel = func(int) string { return "page-123" }
	h.open(t)
	h.popOut(t, 9, 1)

	require.NoError(t, h.hub.Publish(context.Background(),
		event.MustEncode(event.MoveWindowToTab, event.MoveToTab{Label: "page-123", Page: 9})))

	st := waitFor(t, h.c, func(st ViewState) bool { return len(st.Windows) == 0 })
	require.Len(t, st.Tabs, 2)
	moved := st.Tabs[1]
	assert.Equal(t, 9, moved.Page)
	assert.Equal(t, "Page 9", moved.Label)
	assert.Equal(t, moved.ID, st.ActiveTab)
	assert.Equal(t, 9, st.Page)
}

func TestMainWindow_TracksStandaloneWindows(t *testing.T) {
	h := newHarness(t).noSession()
	h.doc.toc = []entity.TOCEntry{{Title: "Intro", Page: 1}, {Title: "Methods", Page: 5}}
	h.open(t)
	label := h.popOut(t, 3, 1)

	ctx := context.Background()
	require.NoError(t, h.hub.Publish(ctx, event.MustEncode(event.WindowPageChanged, event.PageChanged{Label: label, Page: 5})))
	st := waitFor(t, h.c, func(st ViewState) bool { return st.Windows[0].Page == 5 })
	assert.Equal(t, "Methods", st.Windows[0].Chapter)
	assert.Eventually(t, func() bool { return h.host.title(label) == "P5: Methods - Paper" }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.hub.Publish(ctx, event.MustEncode(event.WindowStateChanged,
		event.StateChanged{Label: label, Zoom: 2, ViewMode: entity.ViewModeTwoColumn})))
	st = waitFor(t, h.c, func(st ViewState) bool { return st.Windows[0].Zoom == 2 })
	assert.Equal(t, entity.ViewModeTwoColumn, st.Windows[0].ViewMode)

	var rec *entity.SessionRecord
	on(t, h.c, func() { _, rec = h.c.captureSession() })
	require.Len(t, rec.Windows, 1)
	assert.Equal(t, entity.WindowSnapshot{Page: 5, Zoom: 2, ViewMode: entity.ViewModeTwoColumn}, rec.Windows[0])

	h.host.destroy(label)
	waitFor(t, h.c, func(st ViewState) bool { return len(st.Windows) == 0 })
}

func TestMainWindow_IgnoresInvalidWindowReports(t *testing.T) {
	h := newHarness(t).noSession()
	h.open(t)
	label := h.popOut(t, 2, 1)
	ctx := context.Background()

	publish := func(name event.Name, payload any) {
		require.NoError(t, h.hub.Publish(ctx, event.MustEncode(name, payload)))
	}
	publish(event.WindowPageChanged, event.PageChanged{Label: label, Page: 999})
	publish(event.WindowPageChanged, event.PageChanged{Label: label, Page: 0})
	publish(event.WindowStateChanged, event.StateChanged{Label: label, Zoom: -3, ViewMode: entity.ViewModeTwoColumn})
	publish(event.WindowStateChanged, event.StateChanged{Label: label, Zoom: 2, ViewMode: "banana"})
	publish(event.WindowPageChanged, event.PageChanged{Label: label, Page: 4})

	st := waitFor(t, h.c, func(st ViewState) bool { return st.Windows[0].Page == 4 })
	assert.Equal(t, 1.0, st.Windows[0].Zoom)
	assert.Equal(t, entity.ViewModeSingle, st.Windows[0].ViewMode)

	var rec *entity.SessionRecord
	on(t, h.c, func() { _, rec = h.c.captureSession() })
	require.Len(t, rec.Windows, 1)
	assert.Equal(t, entity.WindowSnapshot{Page: 4, Zoom: 1, ViewMode: entity.ViewModeSingle}, rec.Windows[0])
}

func TestMainWindow_PopOutFailureIsSwallowed(t *testing.T) {
	h := newHarness(t).noSession()
	h.host.openErr = fmt.Errorf("no terminal")
	h.open(t)

	on(t, h.c, func() { h.c.PopOut(context.Background(), 2) })
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, state(t, h.c).Windows)
}

func TestMainWindow_ShutdownClosesChildren(t *testing.T) {
	h := newHarness(t).noSession()
	h.open(t)
	first := h.popOut(t, 2, 1)
	second := h.popOut(t, 3, 2)

	on(t, h.c, func() { h.c.Shutdown(context.Background()) })

	assert.ElementsMatch(t, []string{first, second}, h.host.closedLabels())
	assert.True(t, h.doc.closed)
}

func TestMainWindow_CloseLastTabClosesDocument(t *testing.T) {
	h := newHarness(t).noSession()
	h.open(t)
	on(t, h.c, func() { h.c.GoToPage(context.Background(), 6) })

	on(t, h.c, func() { h.c.Perform(context.Background(), ActionCloseTab) })
	st := state(t, h.c)
	assert.False(t, st.HasDocument)
	assert.Empty(t, st.Tabs)
	assert.Equal(t, 1, h.shell.closedDocs)

	path, rec, err := h.c.CaptureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, docPath, path)
	require.NotNil(t, rec)
	assert.Equal(t, 6, rec.Page)

	path, rec, err = h.c.CaptureSession(context.Background())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Nil(t, rec)
}

func TestMainWindow_CaptureSessionHistory(t *testing.T) {
	h := newHarness(t).noSession()
	h.open(t)

	on(t, h.c, func() {
		for _, page := range []int{1, 3, 5, 3, 7} {
			h.c.GoToPage(context.Background(), page)
		}
	})

	path, rec, err := h.c.CaptureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, docPath, path)
	assert.Equal(t, 7, rec.Page)

	pages := make([]int, 0, len(rec.PageHistory))
	for _, e := range rec.PageHistory {
		pages = append(pages, e.Page)
	}
	assert.Equal(t, []int{1, 5, 3, 7}, pages)
	require.NotNil(t, rec.HistoryIndex)
	assert.Equal(t, 3, *rec.HistoryIndex)
	assert.Equal(t, []entity.TabSnapshot{{Page: 7, Label: "Page 7"}}, rec.Tabs)
}

func TestMainWindow_OpeningPageStartsHistory(t *testing.T) {
	h := newHarness(t).noSession()
	st := h.open(t)
	assert.False(t, st.CanGoBack)

	ctx := context.Background()
	on(t, h.c, func() { h.c.GoToPage(ctx, 7) })
	st = state(t, h.c)
	assert.True(t, st.CanGoBack)

	on(t, h.c, func() { h.c.Perform(ctx, ActionBack) })
	assert.Equal(t, 1, state(t, h.c).Page)
	on(t, h.c, func() { assert.Equal(t, []int{1, 7}, h.c.nav.History().Pages()) })
}

func TestMainWindow_OpenSecondDocumentSpawnsMainWindow(t *testing.T) {
	h := newHarness(t).noSession()
	h.open(t)

	on(t, h.c, func() { h.c.OpenDocument(context.Background(), "/docs/other.pdf") })
	assert.Eventually(t, func() bool {
		h.host.mu.Lock()
		defer h.host.mu.Unlock()
		return len(h.host.mains) == 1 && h.host.mains[0] == "/docs/other.pdf"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, docPath, state(t, h.c).File)
}

func TestWindow_ZoomClamps(t *testing.T) {
	h := newHarness(t).noSession()
	h.open(t)
	ctx := context.Background()

	on(t, h.c, func() {
		for range 20 {
			h.c.Perform(ctx, ActionZoomIn)
		}
	})
	assert.InDelta(t, 4.0, state(t, h.c).Zoom, 1e-9)

	on(t, h.c, func() {
		for range 30 {
			h.c.Perform(ctx, ActionZoomOut)
		}
	})
	assert.InDelta(t, 0.25, state(t, h.c).Zoom, 1e-9)

	on(t, h.c, func() {
		h.c.Perform(ctx, ActionZoomReset)
		h.c.Perform(ctx, ActionToggleViewMode)
	})
	st := state(t, h.c)
	assert.InDelta(t, 1.0, st.Zoom, 1e-9)
	assert.Equal(t, entity.ViewModeTwoColumn, st.ViewMode)
}

func TestWindow_SearchBrowsingKeepsHistory(t *testing.T) {
	h := newHarness(t).noSession()
	h.doc.pages[1] = "foo here"
	h.doc.pages[3] = "and foo there"
	h.open(t)
	ctx := context.Background()

	on(t, h.c, func() { h.c.Search(ctx, "foo") })
	waitFor(t, h.c, func(st ViewState) bool {
		return st.Search.Query == "foo" && !st.Search.Searching && len(st.Search.Results) == 2
	})

	var before, after int
	on(t, h.c, func() {
		before = h.c.nav.History().Len()
		h.c.Perform(ctx, ActionSearchNext)
	})
	st := state(t, h.c)
	assert.Equal(t, 4, st.Page)
	on(t, h.c, func() { after = h.c.nav.History().Len() })
	assert.Equal(t, before, after)

	on(t, h.c, func() {
		h.c.Perform(ctx, ActionSearchConfirm)
		after = h.c.nav.History().Len()
	})
	assert.Equal(t, before+1, after)
}

func TestStandaloneWindow_PublishesNavigationAndState(t *testing.T) {
	role, err := entity.StandaloneRole("page-3-x")
	require.NoError(t, err)
	h := newHarness(t, withRole(role), withInitial(usecase.LaunchParams{
		Standalone: true, Label: "page-3-x", File: docPath, Page: 3, Zoom: 1.25, ViewMode: entity.ViewModeTwoColumn,
	})).noSession()
	rec := record(t, h.hub, event.WindowPageChanged, event.WindowStateChanged)

	st := h.open(t)
	assert.Equal(t, 3, st.Page)
	assert.InDelta(t, 1.25, st.Zoom, 1e-9)
	assert.Empty(t, st.Tabs)

	ctx := context.Background()
	on(t, h.c, func() { h.c.Perform(ctx, ActionNextPage) })
	page := rec.waitFor(t, event.WindowPageChanged)
	assert.Equal(t, event.PageChanged{Label: "page-3-x", Page: 4}, page)
	assert.Equal(t, "Page 4 - Paper", h.shell.lastTitle())

	on(t, h.c, func() { h.c.Perform(ctx, ActionZoomIn) })
	stateEv := rec.waitFor(t, event.WindowStateChanged)
	assert.Equal(t, event.StateChanged{Label: "page-3-x", Zoom: 1.5, ViewMode: entity.ViewModeTwoColumn}, stateEv)

	assert.Zero(t, h.saver.dirtyCount())
}

func TestStandaloneWindow_MoveToTabClosesWindow(t *testing.T) {
	role, err := entity.StandaloneRole("page-5-y")
	require.NoError(t, err)
	h := newHarness(t, withRole(role), withInitial(usecase.LaunchParams{
		Standalone: true, Label: "page-5-y", File: docPath, Page: 5, Zoom: 1, ViewMode: entity.ViewModeSingle,
	})).noSession()
	rec := record(t, h.hub, event.MoveWindowToTab)
	h.open(t)

	on(t, h.c, func() { h.c.Perform(context.Background(), ActionMoveToTab) })

	assert.Equal(t, event.MoveToTab{Label: "page-5-y", Page: 5}, rec.waitFor(t, event.MoveWindowToTab))
	assert.Equal(t, 1, h.shell.closedWins)
}

func TestBookmarks_SyncAcrossWindows(t *testing.T) {
	primary := newHarness(t).noSession()
	role, err := entity.StandaloneRole("page-2-z")
	require.NoError(t, err)
	standalone := newHarness(t, withRole(role), withSharedDocument(primary), withInitial(usecase.LaunchParams{
		Standalone: true, Label: "page-2-z", File: docPath, Page: 2, Zoom: 1, ViewMode: entity.ViewModeSingle,
	})).noSession()

	primary.open(t)
	standalone.open(t)
	ctx := context.Background()

	on(t, standalone.c, func() { standalone.c.Perform(ctx, ActionToggleBookmark) })
	st := waitFor(t, primary.c, func(st ViewState) bool { return len(st.Bookmarks) == 1 })
	assert.Equal(t, 2, st.Bookmarks[0].Page)
	assert.Equal(t, "Page 2", st.Bookmarks[0].Label)
	assert.Len(t, state(t, standalone.c).Bookmarks, 1)

	dirty := primary.saver.dirtyCount()
	on(t, primary.c, func() { primary.c.ToggleBookmark(ctx, 2) })
	waitFor(t, standalone.c, func(st ViewState) bool { return len(st.Bookmarks) == 0 })
	assert.Greater(t, primary.saver.dirtyCount(), dirty)
}

func TestBookmarks_ClearReachesOtherWindows(t *testing.T) {
	primary := newHarness(t).noSession()
	role, err := entity.StandaloneRole("page-3-z")
	require.NoError(t, err)
	standalone := newHarness(t, withRole(role), withSharedDocument(primary), withInitial(usecase.LaunchParams{
		Standalone: true, Label: "page-3-z", File: docPath, Page: 3, Zoom: 1, ViewMode: entity.ViewModeSingle,
	})).noSession()

	primary.open(t)
	standalone.open(t)
	ctx := context.Background()

	on(t, primary.c, func() {
		primary.c.ToggleBookmark(ctx, 1)
		primary.c.ToggleBookmark(ctx, 2)
	})
	waitFor(t, standalone.c, func(st ViewState) bool { return len(st.Bookmarks) == 2 })

	on(t, standalone.c, func() { standalone.c.Perform(ctx, ActionClearBookmarks) })
	waitFor(t, primary.c, func(st ViewState) bool { return len(st.Bookmarks) == 0 })
	assert.Empty(t, state(t, standalone.c).Bookmarks)
}
