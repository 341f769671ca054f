package eventbus

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/event"
	"github.com/bnema/lectern/internal/logging"
	"github.com/coder/websocket"
)

// ClientConfig locates the relay room of a document.
type ClientConfig struct {
	// Address is the relay's host:port.
	Address string
	// Path is the relay's room prefix, e.g. "/events".
	Path string
	// Room is the document's room key, see RoomKey.
	Room string
	// Label identifies this window in relay logs.
	Label string
	// Host starts a relay in this process when none is listening.
	Host bool
}

func (c ClientConfig) url() string {
	u := url.URL{
		Scheme:   "ws",
		Host:     c.Address,
		Path:     c.Path + "/" + c.Room,
		RawQuery: url.Values{"label": {c.Label}}.Encode(),
	}
	return u.String()
}

// Client is an EventBus backed by a relay room. Received envelopes are
// fanned out to local subscribers through a Hub. When the connection
// drops the client reconnects, hosting the relay itself if the previous
// host is gone and cfg.Host is set.
type Client struct {
	cfg ClientConfig
	hub *Hub

	mu     sync.Mutex
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var _ port.EventBus = (*Client)(nil)

// Connect joins the relay room described by cfg.
func Connect(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.Path == "" {
		cfg.Path = "/events"
	}
	if cfg.Room == "" {
		return nil, errors.New("relay room required")
	}

	ctx, cancel := context.WithCancel(logging.WithComponent(ctx, "eventbus"))
	c := &Client{cfg: cfg, hub: NewHub(), ctx: ctx, cancel: cancel, done: make(chan struct{})}

	conn, err := c.dial(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	c.conn = conn

	go c.readLoop()
	return c, nil
}

// Publish sends env to the room. Local subscribers receive it when the
// relay echoes it back.
func (c *Client) Publish(ctx context.Context, env event.Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrClosed
	}

	if err := writeWithTimeout(ctx, conn, data); err != nil {
		return fmt.Errorf("relay write: %w", err)
	}
	return nil
}

// Subscribe registers handler for envelopes named name.
func (c *Client) Subscribe(name event.Name, handler port.EventHandler) (port.Subscription, error) {
	return c.hub.Subscribe(name, handler)
}

// Close leaves the room and stops all subscribers.
func (c *Client) Close() error {
	c.cancel()
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close(websocket.StatusNormalClosure, "window closed")
	}
	<-c.done
	c.hub.Close()
	return err
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	if c.cfg.Host {
		if err := c.hostIfAbsent(); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("not hosting event relay")
		}
	}

	dialCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, c.cfg.url(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial event relay %s: %w", c.cfg.Address, err)
	}
	conn.SetReadLimit(maxMessageBytes)
	return conn, nil
}

// hostIfAbsent starts a relay on cfg.Address unless the port is taken.
// The relay runs until the client's context ends.
func (c *Client) hostIfAbsent() error {
	ln, err := net.Listen("tcp", c.cfg.Address)
	if err != nil {
		return err
	}
	relay := NewRelay(c.ctx, c.cfg.Path)
	go func() {
		if err := relay.Serve(c.ctx, ln); err != nil {
			logging.FromContext(c.ctx).Warn().Err(err).Msg("event relay stopped")
		}
	}()
	logging.FromContext(c.ctx).Info().Str("addr", c.cfg.Address).Msg("hosting event relay")
	return nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	log := logging.FromContext(c.ctx)

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("event relay connection lost")
			if !c.reconnect() {
				return
			}
			continue
		}

		env, err := event.Unmarshal(data)
		if err != nil {
			log.Warn().Err(err).Msg("dropping malformed envelope")
			continue
		}
		if err := c.hub.Publish(c.ctx, env); err != nil {
			return
		}
	}
}

func (c *Client) reconnect() bool {
	log := logging.FromContext(c.ctx)
	delay := 50 * time.Millisecond

	for attempt := 1; ; attempt++ {
		select {
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
		}

		conn, err := c.dial(c.ctx)
		if err == nil {
			c.mu.Lock()
			if c.ctx.Err() != nil {
				c.mu.Unlock()
				_ = conn.CloseNow()
				return false
			}
			c.conn = conn
			c.mu.Unlock()
			log.Info().Int("attempt", attempt).Msg("event relay reconnected")
			return true
		}
		log.Debug().Err(err).Int("attempt", attempt).Msg("event relay reconnect failed")
		if delay < 2*time.Second {
			delay *= 2
		}
	}
}
