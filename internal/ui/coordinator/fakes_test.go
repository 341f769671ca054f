package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/ui/mainloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocument struct {
	path   string
	pages  []string
	toc    []entity.TOCEntry
	closed bool
}

func (d *fakeDocument) Path() string                       { return d.path }
func (d *fakeDocument) Title() string                      { return "Paper" }
func (d *fakeDocument) PageCount() int                     { return len(d.pages) }
func (d *fakeDocument) TableOfContents() []entity.TOCEntry { return d.toc }

func (d *fakeDocument) PageText(_ context.Context, page int) (string, error) {
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.pages[page-1], nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

func newDocument(path string, pageCount int) *fakeDocument {
	pages := make([]string, pageCount)
	for i := range pages {
		pages[i] = fmt.Sprintf("text of page %d", i+1)
	}
	return &fakeDocument{path: path, pages: pages}
}

type fakeLoader struct {
	mu   sync.Mutex
	docs map[string]*fakeDocument
}

func (l *fakeLoader) Open(_ context.Context, path string) (port.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	doc, ok := l.docs[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return doc, nil
}

type fakeShell struct {
	mu         sync.Mutex
	alerts     []string
	titles     []string
	closedDocs int
	closedWins int
}

func (s *fakeShell) Alert(_ context.Context, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, title+": "+message)
}

func (s *fakeShell) SetTitle(_ context.Context, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles = append(s.titles, title)
}

func (s *fakeShell) CloseDocument(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedDocs++
}

func (s *fakeShell) CloseWindow(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedWins++
}

func (s *fakeShell) lastTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.titles) == 0 {
		return ""
	}
	return s.titles[len(s.titles)-1]
}

func (s *fakeShell) alertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

type fakeHost struct {
	mu          sync.Mutex
	opened      []port.StandaloneSpec
	mains       []string
	titles      map[string]string
	closed      []string
	openErr     error
	onDestroyed []func(string)
}

func newFakeHost() *fakeHost {
	return &fakeHost{titles: make(map[string]string)}
}

func (h *fakeHost) OpenStandalone(_ context.Context, spec port.StandaloneSpec) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.openErr != nil {
		return h.openErr
	}
	h.opened = append(h.opened, spec)
	return nil
}

func (h *fakeHost) OpenMain(_ context.Context, file string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mains = append(h.mains, file)
	return nil
}

func (h *fakeHost) SetTitle(_ context.Context, label, title string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.titles[label] = title
	return nil
}

func (h *fakeHost) Focus(context.Context, string) error { return errors.ErrUnsupported }

func (h *fakeHost) Close(_ context.Context, label string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = append(h.closed, label)
	return nil
}

func (h *fakeHost) OnDestroyed(fn func(label string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDestroyed = append(h.onDestroyed, fn)
}

func (h *fakeHost) destroy(label string) {
	h.mu.Lock()
	callbacks := append([]func(string){}, h.onDestroyed...)
	h.mu.Unlock()
	for _, fn := range callbacks {
		fn(label)
	}
}

func (h *fakeHost) title(label string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.titles[label]
}

func (h *fakeHost) openedSpecs() []port.StandaloneSpec {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]port.StandaloneSpec(nil), h.opened...)
}

func (h *fakeHost) closedLabels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.closed...)
}

type fakeSaver struct {
	mu        sync.Mutex
	dirty     int
	restoring []bool
}

func (s *fakeSaver) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty++
}

func (s *fakeSaver) SetRestoring(restoring bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoring = append(s.restoring, restoring)
}

func (s *fakeSaver) dirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func startLoop(t *testing.T) *mainloop.Loop {
	t.Helper()
	loop := mainloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(cancel)
	return loop
}

// on runs fn on the coordinator's loop and waits for it.
func on(t *testing.T, c *WindowCoordinator, fn func()) {
	t.Helper()
	require.NoError(t, c.loop.Do(context.Background(), fn))
}

func state(t *testing.T, c *WindowCoordinator) ViewState {
	t.Helper()
	var st ViewState
	on(t, c, func() { st = c.State() })
	return st
}

func waitFor(t *testing.T, c *WindowCoordinator, cond func(ViewState) bool) ViewState {
	t.Helper()
	assert.Eventually(t, func() bool { return cond(state(t, c)) }, 2*time.Second, 5*time.Millisecond)
	return state(t, c)
}

func waitOpened(t *testing.T, c *WindowCoordinator) ViewState {
	t.Helper()
	return waitFor(t, c, func(st ViewState) bool { return st.HasDocument && !st.Loading })
}
