// Package coordinator composes the stores, synchronizer and search of one
// window and runs them on that window's main loop.
package coordinator

import (
	"context"
	"fmt"
	"math"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
	"github.com/bnema/lectern/internal/ui/mainloop"
	"github.com/nrednav/cuid2"
)

const (
	minZoom         = 0.25
	maxZoom         = 4.0
	defaultZoomStep = 0.25
)

// SessionSaver receives change notifications from the main window.
// snapshot.Service implements it.
type SessionSaver interface {
	MarkDirty()
	SetRestoring(restoring bool)
}

// Config holds the collaborators of a WindowCoordinator.
type Config struct {
	Role entity.WindowRole
	// Loop is the window's main loop. Every coordinator method except
	// CaptureSession must run on it.
	Loop *mainloop.Loop
	// Platform runs window-host calls off the main loop. When nil they
	// run on their own goroutine.
	Platform *mainloop.Loop

	Bus     port.EventBus
	Loader  port.DocumentLoader
	Host    port.WindowHost
	Shell   port.Shell
	Restore *usecase.RestoreSessionUseCase

	// Initial is the starting view of a standalone window.
	Initial *usecase.LaunchParams

	Search      usecase.SearchOptions
	DefaultZoom float64
	ZoomStep    float64

	// NewLabel names pop-out windows. Defaults to "page-<n>-<cuid2>".
	NewLabel func(page int) string
}

// WindowCoordinator is the actor behind one window.
type WindowCoordinator struct {
	role     entity.WindowRole
	loop     *mainloop.Loop
	platform func(func()) bool
	titles   *mainloop.Coalescer

	loader  port.DocumentLoader
	host    port.WindowHost
	shell   port.Shell
	restore *usecase.RestoreSessionUseCase
	initial *usecase.LaunchParams

	sync      *usecase.WindowSynchronizer
	nav       *usecase.Navigator
	bookmarks *usecase.ManageBookmarksUseCase
	search    *usecase.SearchCoordinator
	moveToTab *usecase.MoveWindowToTabUseCase
	registry  *entity.WindowRegistry
	saver     SessionSaver

	defaultZoom float64
	zoomStep    float64
	newLabel    func(page int) string

	ctx      context.Context
	doc      port.Document
	loading  bool
	openSeq  uint64
	zoom     float64
	viewMode entity.ViewMode

	// closed holds the final record of a document closed before its
	// debounced save ran.
	closed *closedSession

	onChange []func(ViewState)
}

type closedSession struct {
	path   string
	record *entity.SessionRecord
}

// New creates a coordinator. Call Start on the loop before use.
func New(cfg Config) (*WindowCoordinator, error) {
	if cfg.Loop == nil {
		return nil, fmt.Errorf("main loop is required")
	}
	if cfg.Bus == nil || cfg.Loader == nil || cfg.Shell == nil {
		return nil, fmt.Errorf("bus, loader and shell are required")
	}

	platform := func(fn func()) bool {
		go fn()
		return true
	}
	if cfg.Platform != nil {
		platform = cfg.Platform.Post
	}

	c := &WindowCoordinator{
		role:        cfg.Role,
		loop:        cfg.Loop,
		platform:    platform,
		titles:      mainloop.NewCoalescer(platform),
		loader:      cfg.Loader,
		host:        cfg.Host,
		shell:       cfg.Shell,
		restore:     cfg.Restore,
		initial:     cfg.Initial,
		sync:        usecase.NewWindowSynchronizer(cfg.Role, cfg.Bus, cfg.Loop.Post),
		nav:         usecase.NewNavigator(),
		bookmarks:   usecase.NewManageBookmarksUseCase(entity.NewBookmarkSet(), cfg.Bus, cfg.Role.Label()),
		moveToTab:   usecase.NewMoveWindowToTabUseCase(),
		registry:    entity.NewWindowRegistry(),
		defaultZoom: cfg.DefaultZoom,
		zoomStep:    cfg.ZoomStep,
		newLabel:    cfg.NewLabel,
		ctx:         context.Background(),
		viewMode:    entity.ViewModeSingle,
	}
	if c.defaultZoom <= 0 {
		c.defaultZoom = entity.DefaultZoom
	}
	if c.zoomStep <= 0 {
		c.zoomStep = defaultZoomStep
	}
	if c.newLabel == nil {
		c.newLabel = func(page int) string { return fmt.Sprintf("page-%d-%s", page, cuid2.Generate()) }
	}
	c.zoom = c.defaultZoom
	c.search = usecase.NewSearchCoordinator(cfg.Loop.Post, cfg.Search, func(usecase.SearchState) { c.notify() })
	return c, nil
}

// SetSessionSaver attaches the persistence writer. Only the main window saves.
func (c *WindowCoordinator) SetSessionSaver(saver SessionSaver) {
	c.saver = saver
}

// OnChange registers a callback run on the loop after every state change.
func (c *WindowCoordinator) OnChange(fn func(ViewState)) {
	if fn != nil {
		c.onChange = append(c.onChange, fn)
	}
}

// Role returns the window role.
func (c *WindowCoordinator) Role() entity.WindowRole { return c.role }

// Start subscribes to the bus and to window lifecycle reports.
func (c *WindowCoordinator) Start(ctx context.Context) error {
	c.ctx = logging.WithWindowLabel(logging.WithComponent(ctx, "coordinator"), c.role.Label())

	if err := c.sync.Start(c.ctx, c); err != nil {
		return err
	}
	if c.role.IsMain() && c.host != nil {
		c.host.OnDestroyed(func(label string) {
			c.loop.Post(func() { c.windowDestroyed(label) })
		})
	}

	logging.FromContext(c.ctx).Debug().Str("role", c.role.String()).Msg("window coordinator started")
	return nil
}

// Shutdown stops synchronization, closes child windows when this is the
// main window and releases the document.
func (c *WindowCoordinator) Shutdown(ctx context.Context) {
	log := logging.FromContext(c.ctx)

	c.sync.Stop()
	c.search.Cancel()

	if c.role.IsMain() && c.host != nil {
		for _, label := range c.registry.Labels() {
			if err := c.host.Close(ctx, label); err != nil {
				log.Warn().Err(err).Str("label", label).Msg("failed to close standalone window")
			}
		}
	}
	c.titles.Destroy()

	if c.doc != nil {
		if err := c.doc.Close(); err != nil {
			log.Debug().Err(err).Msg("document close failed")
		}
		c.doc = nil
	}
}

// State returns the current view state.
func (c *WindowCoordinator) State() ViewState {
	st := ViewState{
		Role:         c.role,
		Loading:      c.loading,
		HasDocument:  c.doc != nil,
		Page:         c.nav.Page(),
		TotalPages:   c.nav.TotalPages(),
		Zoom:         c.zoom,
		ViewMode:     c.viewMode,
		Tabs:         c.nav.Tabs().Tabs(),
		Windows:      c.registry.All(),
		Bookmarks:    c.bookmarks.Set().List(),
		TOC:          c.nav.TOC(),
		CanGoBack:    c.nav.CanGoBack(),
		CanGoForward: c.nav.CanGoForward(),
		Search:       c.search.State(),
	}
	if c.doc != nil {
		st.File = c.doc.Path()
		st.Title = c.doc.Title()
		st.Chapter = c.nav.Chapter(st.Page)
		st.Bookmarked = c.bookmarks.Set().Has(st.Page)
	}
	if tab := c.nav.Tabs().ActiveTab(); tab != nil {
		st.ActiveTab = tab.ID
	}
	return st
}

func (c *WindowCoordinator) notify() {
	if len(c.onChange) == 0 {
		return
	}
	st := c.State()
	for _, fn := range c.onChange {
		fn(st)
	}
}

func (c *WindowCoordinator) markDirty() {
	if c.role.IsMain() && c.saver != nil {
		c.saver.MarkDirty()
	}
}

// Perform runs a menu action.
func (c *WindowCoordinator) Perform(ctx context.Context, action Action) {
	if c.doc == nil {
		return
	}
	logging.FromContext(ctx).Trace().Str("action", action.String()).Msg("perform")

	switch action {
	case ActionNextPage:
		c.navigated(ctx, c.nav.NextPage())
	case ActionPrevPage:
		c.navigated(ctx, c.nav.PrevPage())
	case ActionFirstPage:
		c.navigated(ctx, c.nav.FirstPage())
	case ActionLastPage:
		c.navigated(ctx, c.nav.LastPage())
	case ActionBack:
		_, ok := c.nav.GoBack()
		c.navigated(ctx, ok)
	case ActionForward:
		_, ok := c.nav.GoForward()
		c.navigated(ctx, ok)
	case ActionZoomIn:
		c.SetZoom(ctx, c.zoom+c.zoomStep)
	case ActionZoomOut:
		c.SetZoom(ctx, c.zoom-c.zoomStep)
	case ActionZoomReset:
		c.SetZoom(ctx, c.defaultZoom)
	case ActionToggleViewMode:
		c.SetViewMode(ctx, c.viewMode.Toggle())
	case ActionNewTab:
		c.AddTab(ctx, c.nav.Page())
	case ActionCloseTab:
		c.CloseTab(ctx)
	case ActionNextTab:
		c.tabSelected(ctx, c.nav.SelectNextTab())
	case ActionPrevTab:
		c.tabSelected(ctx, c.nav.SelectPrevTab())
	case ActionNewWindow:
		c.PopOut(ctx, c.nav.Page())
	case ActionMoveToTab:
		c.MoveToTab(ctx)
	case ActionToggleBookmark:
		c.ToggleBookmark(ctx, c.nav.Page())
	case ActionClearBookmarks:
		c.ClearBookmarks(ctx)
	case ActionSearchNext:
		c.browseResult(ctx, c.search.Next)
	case ActionSearchPrev:
		c.browseResult(ctx, c.search.Prev)
	case ActionSearchConfirm:
		if r, ok := c.search.Confirm(); ok {
			c.navigated(ctx, c.nav.PushPage(r.Page))
		}
	case ActionSearchCancel:
		c.search.Cancel()
		c.notify()
	}
}

// GoToPage navigates to page and records it in history.
func (c *WindowCoordinator) GoToPage(ctx context.Context, page int) bool {
	ok := c.nav.PushPage(page)
	c.navigated(ctx, ok)
	return ok
}

func (c *WindowCoordinator) navigated(ctx context.Context, changed bool) {
	if !changed {
		return
	}
	c.retitleSelf(ctx)
	if c.role.IsMain() {
		c.markDirty()
	} else if err := c.sync.PublishPageChanged(ctx, c.nav.Page()); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to publish page change")
	}
	c.notify()
}

func (c *WindowCoordinator) browseResult(ctx context.Context, step func() (entity.SearchResult, bool)) {
	r, ok := step()
	if !ok {
		return
	}
	if c.nav.ShowPage(r.Page) {
		c.navigated(ctx, true)
		return
	}
	c.notify()
}

// SetZoom sets the zoom factor, clamped to [0.25, 4].
func (c *WindowCoordinator) SetZoom(ctx context.Context, zoom float64) {
	zoom = math.Round(zoom*100) / 100
	zoom = math.Max(minZoom, math.Min(maxZoom, zoom))
	if zoom == c.zoom {
		return
	}
	c.zoom = zoom
	c.stateChanged(ctx)
}

// SetViewMode switches between single and two-column layout.
func (c *WindowCoordinator) SetViewMode(ctx context.Context, mode entity.ViewMode) {
	if mode == c.viewMode {
		return
	}
	c.viewMode = mode
	c.stateChanged(ctx)
}

func (c *WindowCoordinator) stateChanged(ctx context.Context) {
	if c.role.IsMain() {
		c.markDirty()
	} else if err := c.sync.PublishStateChanged(ctx, c.zoom, c.viewMode); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to publish state change")
	}
	c.notify()
}

// AddTab opens a tab on page in the main window.
func (c *WindowCoordinator) AddTab(ctx context.Context, page int) {
	if !c.role.IsMain() {
		return
	}
	if _, ok := c.nav.AddTab(page); ok {
		c.tabSelected(ctx, true)
	}
}

// SelectTab activates a tab.
func (c *WindowCoordinator) SelectTab(ctx context.Context, id entity.TabID) {
	c.tabSelected(ctx, c.nav.SelectTab(id))
}

func (c *WindowCoordinator) tabSelected(ctx context.Context, changed bool) {
	if !changed {
		return
	}
	c.retitleSelf(ctx)
	c.markDirty()
	c.notify()
}

// CloseTab closes the active tab. Closing the last tab closes the document.
func (c *WindowCoordinator) CloseTab(ctx context.Context) {
	if !c.role.IsMain() {
		return
	}
	if c.nav.CloseActiveTab() {
		c.CloseDocument(ctx)
		return
	}
	c.tabSelected(ctx, true)
}

// ToggleBookmark adds or removes the bookmark on page and broadcasts the set.
func (c *WindowCoordinator) ToggleBookmark(ctx context.Context, page int) {
	if !c.nav.InRange(page) {
		return
	}
	c.bookmarks.Toggle(ctx, page, entity.DefaultBookmarkLabel(page, c.nav.Chapter(page)))
	c.markDirty()
	c.notify()
}

// RemoveBookmark removes the bookmark on page.
func (c *WindowCoordinator) RemoveBookmark(ctx context.Context, page int) {
	if c.bookmarks.Remove(ctx, page) {
		c.markDirty()
		c.notify()
	}
}

// ClearBookmarks removes every bookmark.
func (c *WindowCoordinator) ClearBookmarks(ctx context.Context) {
	if c.bookmarks.Set().Len() == 0 {
		return
	}
	c.bookmarks.Clear(ctx)
	c.markDirty()
	c.notify()
}

// Search starts a full-text search, superseding any running one.
func (c *WindowCoordinator) Search(ctx context.Context, query string) {
	if c.doc == nil {
		return
	}
	c.search.Search(ctx, c.doc, query)
}

// PopOut opens page in a new standalone window. Main window only.
func (c *WindowCoordinator) PopOut(ctx context.Context, page int) {
	if !c.role.IsMain() || c.host == nil || c.doc == nil || !c.nav.InRange(page) {
		return
	}
	c.spawn(ctx, port.StandaloneSpec{
		Label:    c.newLabel(page),
		File:     c.doc.Path(),
		Page:     page,
		Zoom:     c.zoom,
		ViewMode: c.viewMode,
	})
}

// MoveToTab hands a standalone window back to main as a tab and closes it.
func (c *WindowCoordinator) MoveToTab(ctx context.Context) {
	if c.role.IsMain() {
		return
	}
	if err := c.sync.PublishMoveToTab(ctx, c.nav.Page()); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to publish move-to-tab, keeping window")
		return
	}
	c.shell.CloseWindow(ctx)
}

func (c *WindowCoordinator) spawn(ctx context.Context, spec port.StandaloneSpec) {
	log := logging.FromContext(ctx)
	host := c.host
	c.platform(func() {
		err := host.OpenStandalone(ctx, spec)
		if !c.loop.Post(func() { c.windowCreated(ctx, spec, err) }) && err == nil {
			log.Debug().Str("label", spec.Label).Msg("main loop gone, closing new window")
			_ = host.Close(ctx, spec.Label)
		}
	})
}

func (c *WindowCoordinator) windowCreated(ctx context.Context, spec port.StandaloneSpec, err error) {
	log := logging.FromContext(ctx)
	if err != nil {
		log.Warn().Err(err).Str("label", spec.Label).Msg("failed to open standalone window")
		return
	}
	if c.doc == nil || c.doc.Path() != spec.File {
		log.Debug().Str("label", spec.Label).Msg("document changed before window opened, closing it")
		c.platform(func() { _ = c.host.Close(ctx, spec.Label) })
		return
	}

	w := &entity.StandaloneWindow{
		Label:    spec.Label,
		Page:     spec.Page,
		Chapter:  c.nav.Chapter(spec.Page),
		Zoom:     spec.Zoom,
		ViewMode: spec.ViewMode,
	}
	c.registry.Add(w)
	c.retitleWindow(ctx, w)
	c.markDirty()
	c.notify()
}

func (c *WindowCoordinator) windowDestroyed(label string) {
	if c.registry.Remove(label) == nil {
		return
	}
	logging.FromContext(c.ctx).Debug().Str("label", label).Msg("standalone window closed")
	c.markDirty()
	c.notify()
}

func (c *WindowCoordinator) retitleSelf(ctx context.Context) {
	if c.doc == nil {
		return
	}
	page := c.nav.Page()
	c.shell.SetTitle(ctx, entity.WindowTitle(c.doc.Title(), page, c.nav.Chapter(page)))
}

func (c *WindowCoordinator) retitleWindow(ctx context.Context, w *entity.StandaloneWindow) {
	if c.host == nil || c.doc == nil {
		return
	}
	label, title, host := w.Label, w.Title(c.doc.Title()), c.host
	c.titles.Post(label, func() {
		if err := host.SetTitle(ctx, label, title); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("label", label).Msg("failed to retitle window")
		}
	})
}

// CaptureSession implements port.SessionProvider. It is safe to call from
// any goroutine other than the loop itself.
func (c *WindowCoordinator) CaptureSession(ctx context.Context) (string, *entity.SessionRecord, error) {
	var path string
	var rec *entity.SessionRecord
	err := c.loop.Do(ctx, func() { path, rec = c.captureSession() })
	if err != nil {
		return "", nil, err
	}
	return path, rec, nil
}

func (c *WindowCoordinator) captureSession() (string, *entity.SessionRecord) {
	if !c.role.IsMain() {
		return "", nil
	}
	if c.doc == nil || c.loading {
		if closed := c.closed; closed != nil {
			c.closed = nil
			return closed.path, closed.record
		}
		return "", nil
	}
	return c.doc.Path(), c.sessionRecord()
}

func (c *WindowCoordinator) sessionRecord() *entity.SessionRecord {
	return entity.SnapshotSession(entity.SessionSource{
		Path:      c.doc.Path(),
		Page:      c.nav.Page(),
		Zoom:      c.zoom,
		ViewMode:  c.viewMode,
		Tabs:      c.nav.Tabs(),
		Windows:   c.registry,
		History:   c.nav.History(),
		Bookmarks: c.bookmarks.Set(),
	})
}


