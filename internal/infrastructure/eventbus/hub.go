// Package eventbus carries window events between the windows of a
// document, in process through Hub and across processes through Relay.
package eventbus

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/event"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("event bus closed")

// Hub is an in-process event bus. Every subscriber has its own queue
// and goroutine, so a slow handler never delays other subscribers and
// each subscriber sees events in publish order.
type Hub struct {
	mu     sync.Mutex
	subs   map[event.Name]map[*subscriber]struct{}
	closed bool
}

var _ port.EventBus = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[event.Name]map[*subscriber]struct{})}
}

// Publish queues env for every subscriber of its event name. It never
// blocks on handlers.
func (h *Hub) Publish(_ context.Context, env event.Envelope) error {
	if !env.Event.Valid() {
		return event.ErrUnknownEvent
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	targets := make([]*subscriber, 0, len(h.subs[env.Event]))
	for sub := range h.subs[env.Event] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		sub.enqueue(env)
	}
	return nil
}

// Subscribe registers handler for name.
func (h *Hub) Subscribe(name event.Name, handler port.EventHandler) (port.Subscription, error) {
	if !name.Valid() {
		return nil, event.ErrUnknownEvent
	}
	if handler == nil {
		return nil, errors.New("nil event handler")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}

	sub := newSubscriber(handler, func(s *subscriber) { h.remove(name, s) })
	if h.subs[name] == nil {
		h.subs[name] = make(map[*subscriber]struct{})
	}
	h.subs[name][sub] = struct{}{}
	go sub.run()
	return sub, nil
}

// SubscriberCount returns the number of live subscriptions for name.
func (h *Hub) SubscriberCount(name event.Name) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[name])
}

// Close stops every subscriber. Queued events are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	var all []*subscriber
	for _, set := range h.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	h.subs = make(map[event.Name]map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range all {
		sub.stop()
	}
}

func (h *Hub) remove(name event.Name, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set := h.subs[name]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, name)
		}
	}
}

type subscriber struct {
	handler  port.EventHandler
	onRemove func(*subscriber)

	mu      sync.Mutex
	queue   []event.Envelope
	wake    chan struct{}
	done    chan struct{}
	stopped bool
	once    sync.Once
}

func newSubscriber(handler port.EventHandler, onRemove func(*subscriber)) *subscriber {
	return &subscriber{
		handler:  handler,
		onRemove: onRemove,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (s *subscriber) enqueue(env event.Envelope) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, env)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if s.stopped || len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			env := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			s.handler(env)
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.queue = nil
		s.mu.Unlock()
		close(s.done)
	})
}

// Unsubscribe stops delivery. Events already being handled finish.
func (s *subscriber) Unsubscribe() {
	s.stop()
	if s.onRemove != nil {
		s.onRemove(s)
	}
}
