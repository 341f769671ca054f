package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/event"
)

// fakeBus records publishes and delivers synchronously on Deliver.
type fakeBus struct {
	mu         sync.Mutex
	published  []event.Envelope
	handlers   map[event.Name][]*fakeSub
	publishErr error
	failOn     event.Name
}

type fakeSub struct {
	bus     *fakeBus
	name    event.Name
	handler port.EventHandler
	active  bool
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[event.Name][]*fakeSub)}
}

func (b *fakeBus) Publish(_ context.Context, env event.Envelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, env)
	return nil
}

func (b *fakeBus) Subscribe(name event.Name, handler port.EventHandler) (port.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if name == b.failOn {
		return nil, errors.New("subscribe refused")
	}
	sub := &fakeSub{bus: b, name: name, handler: handler, active: true}
	b.handlers[name] = append(b.handlers[name], sub)
	return sub, nil
}

func (s *fakeSub) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.active = false
}

func (b *fakeBus) Deliver(env event.Envelope) {
	b.mu.Lock()
	var targets []port.EventHandler
	for _, sub := range b.handlers[env.Event] {
		if sub.active {
			targets = append(targets, sub.handler)
		}
	}
	b.mu.Unlock()
	for _, h := range targets {
		h(env)
	}
}

func (b *fakeBus) activeSubscriptions() []event.Name {
	b.mu.Lock()
	defer b.mu.Unlock()
	var names []event.Name
	for _, name := range event.Names {
		for _, sub := range b.handlers[name] {
			if sub.active {
				names = append(names, name)
			}
		}
	}
	return names
}

func (b *fakeBus) Published() []event.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]event.Envelope(nil), b.published...)
}

// fakeDocument serves fixed page texts.
type fakeDocument struct {
	path  string
	pages []string
	toc   []entity.TOCEntry
	gate  chan struct{}
}

func (d *fakeDocument) Path() string                       { return d.path }
func (d *fakeDocument) Title() string                      { return "Fake" }
func (d *fakeDocument) PageCount() int                     { return len(d.pages) }
func (d *fakeDocument) TableOfContents() []entity.TOCEntry { return d.toc }
func (d *fakeDocument) Close() error                       { return nil }

func (d *fakeDocument) PageText(ctx context.Context, page int) (string, error) {
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.pages[page-1], nil
}

// inlinePost runs posted work immediately on the caller's goroutine.
func inlinePost(fn func()) bool {
	fn()
	return true
}
