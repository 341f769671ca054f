package eventbus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/lectern/internal/domain/event"
	"github.com/bnema/lectern/internal/logging"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	maxMessageBytes = 1 << 20
	peerQueueSize   = 256
	writeTimeout    = 2 * time.Second
)

// RoomKey derives the relay room of a document from its absolute path.
func RoomKey(documentPath string) string {
	sum := sha256.Sum256([]byte(documentPath))
	return hex.EncodeToString(sum[:8])
}

// Relay fans envelopes out between the window processes of a document.
// Peers join a room by path; every envelope a peer sends is delivered to
// every peer of the room, the sender included, in the order received.
type Relay struct {
	path   string
	logger zerolog.Logger

	mu    sync.Mutex
	rooms map[string]map[*peer]struct{}
}

// NewRelay creates a relay serving rooms under path, e.g. "/events".
func NewRelay(ctx context.Context, path string) *Relay {
	if path == "" {
		path = "/events"
	}
	return &Relay{
		path:   path,
		logger: logging.FromContext(ctx).With().Str("component", "relay").Logger(),
		rooms:  make(map[string]map[*peer]struct{}),
	}
}

// Handler returns the relay's HTTP routes.
func (r *Relay) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Get(r.path+"/{room}", r.handleSocket)
	return router
}

// Serve runs the relay on ln until ctx is cancelled.
func (r *Relay) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Debug().Str("addr", ln.Addr().String()).Msg("event relay listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		r.closeAll()
		return srv.Shutdown(shutdownCtx)
	}
}

// PeerCount returns the number of peers joined to room.
func (r *Relay) PeerCount(room string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[room])
}

func (r *Relay) handleSocket(w http.ResponseWriter, req *http.Request) {
	room := chi.URLParam(req, "room")
	label := req.URL.Query().Get("label")

	conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("room", room).Msg("failed to accept relay websocket")
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	p := &peer{conn: conn, label: label, send: make(chan []byte, peerQueueSize)}
	r.join(room, p)
	defer r.leave(room, p)

	go p.writeLoop(ctx, cancel)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				r.logger.Debug().Err(err).Str("room", room).Str("window", label).Msg("relay peer read failed")
			}
			return
		}
		env, err := event.Unmarshal(data)
		if err != nil {
			r.logger.Warn().Err(err).Str("room", room).Str("window", label).Msg("dropping malformed envelope")
			continue
		}
		r.broadcast(room, env.Event, data)
	}
}

func (r *Relay) join(room string, p *peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[*peer]struct{})
	}
	r.rooms[room][p] = struct{}{}
	r.logger.Debug().Str("room", room).Str("window", p.label).Int("peers", len(r.rooms[room])).Msg("relay peer joined")
}

func (r *Relay) leave(room string, p *peer) {
	r.mu.Lock()
	if set := r.rooms[room]; set != nil {
		delete(set, p)
		if len(set) == 0 {
			delete(r.rooms, room)
		}
	}
	r.mu.Unlock()
	p.close(websocket.StatusNormalClosure, "bye")
}

func (r *Relay) broadcast(room string, name event.Name, data []byte) {
	r.mu.Lock()
	peers := make([]*peer, 0, len(r.rooms[room]))
	for p := range r.rooms[room] {
		peers = append(peers, p)
	}
	r.mu.Unlock()

	for _, p := range peers {
		if !p.enqueue(data) {
			r.logger.Warn().Str("room", room).Str("window", p.label).Str("event", string(name)).Msg("relay peer too slow, disconnecting")
			p.closeNow()
		}
	}
}

func (r *Relay) closeAll() {
	r.mu.Lock()
	var peers []*peer
	for _, set := range r.rooms {
		for p := range set {
			peers = append(peers, p)
		}
	}
	r.mu.Unlock()

	for _, p := range peers {
		p.close(websocket.StatusGoingAway, "relay shutting down")
	}
}

type peer struct {
	conn  *websocket.Conn
	label string
	send  chan []byte

	mu     sync.Mutex
	closed bool
}

func (p *peer) enqueue(data []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return true
	}
	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

func (p *peer) writeLoop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-p.send:
			if err := writeWithTimeout(ctx, p.conn, data); err != nil {
				return
			}
		}
	}
}

func (p *peer) close(code websocket.StatusCode, reason string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	_ = p.conn.Close(code, reason)
}

func (p *peer) closeNow() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	_ = p.conn.CloseNow()
}

func writeWithTimeout(ctx context.Context, conn *websocket.Conn, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
