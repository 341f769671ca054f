package usecase

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
)

const defaultSearchYieldEvery = 5

// SearchState is the search panel state of a window.
type SearchState struct {
	Query   string
	Results []entity.SearchResult
	// Cursor indexes Results once the search has finished.
	Cursor    int
	Searching bool
}

// Current returns the result under the cursor.
func (s SearchState) Current() (entity.SearchResult, bool) {
	if s.Searching || s.Cursor < 0 || s.Cursor >= len(s.Results) {
		return entity.SearchResult{}, false
	}
	return s.Results[s.Cursor], true
}

// SearchOptions tunes the scan.
type SearchOptions struct {
	ContextChars int
	YieldEvery   int
}

// SearchCoordinator runs incremental full-text searches over a document.
//
// Search, Next, Prev, Confirm and State run on the window's main loop.
// The scan runs on its own goroutine and hands partial results back
// through post. A generation counter cancels superseded scans: workers
// check it every YieldEvery pages, and every posted update checks it
// again on the loop before touching state.
type SearchCoordinator struct {
	post     func(func()) bool
	opts     SearchOptions
	onUpdate func(SearchState)

	generation atomic.Uint64
	state      SearchState
}

// NewSearchCoordinator creates a coordinator. onUpdate is called on the
// main loop after every state change and may be nil.
func NewSearchCoordinator(post func(func()) bool, opts SearchOptions, onUpdate func(SearchState)) *SearchCoordinator {
	if opts.ContextChars <= 0 {
		opts.ContextChars = entity.DefaultSearchContext
	}
	if opts.YieldEvery <= 0 {
		opts.YieldEvery = defaultSearchYieldEvery
	}
	return &SearchCoordinator{
		post:     post,
		opts:     opts,
		onUpdate: onUpdate,
		state:    SearchState{Cursor: -1},
	}
}

// State returns a copy of the current search state.
func (c *SearchCoordinator) State() SearchState {
	out := c.state
	out.Results = append([]entity.SearchResult(nil), c.state.Results...)
	return out
}

// Generation returns the current search generation.
func (c *SearchCoordinator) Generation() uint64 {
	return c.generation.Load()
}

// Search starts a new scan for query, superseding any running one.
// A blank query clears results immediately.
func (c *SearchCoordinator) Search(ctx context.Context, doc port.Document, query string) {
	gen := c.generation.Add(1)

	if strings.TrimSpace(query) == "" || doc == nil {
		c.state = SearchState{Cursor: -1}
		c.notify()
		return
	}

	c.state = SearchState{Query: query, Searching: true, Cursor: -1}
	c.notify()

	logging.FromContext(ctx).Debug().
		Str("query", query).
		Uint64("generation", gen).
		Int("pages", doc.PageCount()).
		Msg("search started")

	go c.scan(ctx, gen, doc, query)
}

// Cancel stops any running scan and clears results.
func (c *SearchCoordinator) Cancel() {
	c.generation.Add(1)
	c.state = SearchState{Cursor: -1}
	c.notify()
}

// Next moves the cursor forward, wrapping, and returns the result there.
func (c *SearchCoordinator) Next() (entity.SearchResult, bool) {
	return c.step(1)
}

// Prev moves the cursor backward, wrapping, and returns the result there.
func (c *SearchCoordinator) Prev() (entity.SearchResult, bool) {
	return c.step(-1)
}

// Confirm returns the result under the cursor for a history-recording jump.
func (c *SearchCoordinator) Confirm() (entity.SearchResult, bool) {
	return c.state.Current()
}

func (c *SearchCoordinator) step(delta int) (entity.SearchResult, bool) {
	n := len(c.state.Results)
	if c.state.Searching || n == 0 {
		return entity.SearchResult{}, false
	}
	c.state.Cursor = ((c.state.Cursor+delta)%n + n) % n
	c.notify()
	return c.state.Current()
}

func (c *SearchCoordinator) current(gen uint64) bool {
	return c.generation.Load() == gen
}

func (c *SearchCoordinator) scan(ctx context.Context, gen uint64, doc port.Document, query string) {
	log := logging.FromContext(ctx)
	total := doc.PageCount()
	var results []entity.SearchResult

	for page := 1; page <= total; page++ {
		text, err := doc.PageText(ctx, page)
		if err != nil {
			log.Debug().Err(err).Int("page", page).Msg("skipping page without text")
		} else {
			results = append(results, entity.FindMatches(page, text, query, c.opts.ContextChars)...)
		}

		if page%c.opts.YieldEvery != 0 {
			continue
		}
		if !c.current(gen) || ctx.Err() != nil {
			log.Debug().Uint64("generation", gen).Int("page", page).Msg("search superseded")
			return
		}
		partial := append([]entity.SearchResult(nil), results...)
		c.post(func() {
			if !c.current(gen) {
				return
			}
			c.state.Results = partial
			c.notify()
		})
		runtime.Gosched()
	}

	if !c.current(gen) || ctx.Err() != nil {
		return
	}
	c.post(func() {
		if !c.current(gen) {
			return
		}
		c.state.Results = results
		c.state.Searching = false
		c.state.Cursor = 0
		c.notify()
		log.Debug().Uint64("generation", gen).Int("matches", len(results)).Msg("search finished")
	})
}

func (c *SearchCoordinator) notify() {
	if c.onUpdate != nil {
		c.onUpdate(c.State())
	}
}
