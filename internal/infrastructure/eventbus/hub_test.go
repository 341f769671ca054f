package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bnema/lectern/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	pages []int
}

func (c *collector) handle(env event.Envelope) {
	v, err := env.Decode()
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if pc, ok := v.(event.PageChanged); ok {
		c.pages = append(c.pages, pc.Page)
	}
}

func (c *collector) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.pages...)
}

func pageEvent(page int) event.Envelope {
	return event.MustEncode(event.WindowPageChanged, event.PageChanged{Label: "page-1-a", Page: page})
}

func TestHub_DeliversInOrderToEverySubscriber(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a, b := &collector{}, &collector{}
	_, err := hub.Subscribe(event.WindowPageChanged, a.handle)
	require.NoError(t, err)
	_, err = hub.Subscribe(event.WindowPageChanged, b.handle)
	require.NoError(t, err)

	want := make([]int, 0, 50)
	for i := 1; i <= 50; i++ {
		require.NoError(t, hub.Publish(context.Background(), pageEvent(i)))
		want = append(want, i)
	}

	assert.Eventually(t, func() bool { return len(a.snapshot()) == 50 && len(b.snapshot()) == 50 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, a.snapshot())
	assert.Equal(t, want, b.snapshot())
}

func TestHub_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	release := make(chan struct{})
	_, err := hub.Subscribe(event.WindowPageChanged, func(event.Envelope) { <-release })
	require.NoError(t, err)
	fast := &collector{}
	_, err = hub.Subscribe(event.WindowPageChanged, fast.handle)
	require.NoError(t, err)

	require.NoError(t, hub.Publish(context.Background(), pageEvent(1)))
	require.NoError(t, hub.Publish(context.Background(), pageEvent(2)))

	assert.Eventually(t, func() bool { return len(fast.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	close(release)
}

func TestHub_OnlyMatchingNamesDelivered(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	received := make(chan event.Name, 4)
	_, err := hub.Subscribe(event.BookmarkSync, func(env event.Envelope) { received <- env.Event })
	require.NoError(t, err)

	require.NoError(t, hub.Publish(context.Background(), pageEvent(1)))
	require.NoError(t, hub.Publish(context.Background(), event.MustEncode(event.BookmarkSync, event.BookmarksSynced{SourceLabel: "main"})))

	select {
	case name := <-received:
		assert.Equal(t, event.BookmarkSync, name)
	case <-time.After(time.Second):
		t.Fatal("bookmark-sync not delivered")
	}
	select {
	case name := <-received:
		t.Fatalf("unexpected delivery of %s", name)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	hub := NewHub()
	c := &collector{}
	sub, err := hub.Subscribe(event.WindowPageChanged, c.handle)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.SubscriberCount(event.WindowPageChanged))

	sub.Unsubscribe()
	assert.Zero(t, hub.SubscriberCount(event.WindowPageChanged))
	require.NoError(t, hub.Publish(context.Background(), pageEvent(1)))

	hub.Close()
	assert.ErrorIs(t, hub.Publish(context.Background(), pageEvent(2)), ErrClosed)
	_, err = hub.Subscribe(event.WindowPageChanged, c.handle)
	assert.ErrorIs(t, err, ErrClosed)

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}

func TestHub_RejectsUnknownEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	err := hub.Publish(context.Background(), event.Envelope{Event: "window-exploded"})
	assert.ErrorIs(t, err, event.ErrUnknownEvent)
	_, err = hub.Subscribe("window-exploded", func(event.Envelope) {})
	assert.ErrorIs(t, err, event.ErrUnknownEvent)
}
