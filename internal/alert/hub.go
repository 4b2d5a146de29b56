package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"solana-swap-watch/internal/observability"
)

const (
	hubWriteTimeout = 10 * time.Second
	hubPongWait     = 60 * time.Second
	hubPingInterval = 30 * time.Second
	hubClientBuffer = 64
	hubReadLimit    = 512
)

// hubMessage is the JSON frame pushed to WebSocket subscribers.
type hubMessage struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Token     string `json:"token"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// Hub broadcasts alerts to WebSocket subscribers.
// Subscribers that cannot keep up are disconnected rather than waited on.
type Hub struct {
	upgrader websocket.Upgrader
	logger   zerolog.Logger

	mu      sync.Mutex
	clients map[*hubClient]struct{}
	closed  bool
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*hubClient]struct{}),
	}
}

// Name implements Sink.
func (h *Hub) Name() string { return "websocket" }

// Send implements Sink. Never blocks on a subscriber.
func (h *Hub) Send(_ context.Context, a Alert) error {
	data, err := json.Marshal(hubMessage{
		ID:        a.ID,
		Kind:      a.Kind.String(),
		Token:     a.TokenID,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("dropping slow websocket subscriber")
			h.removeLocked(c)
		}
	}
	return nil
}

// ServeHTTP upgrades the request and streams alerts until the peer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &hubClient{conn: conn, send: make(chan []byte, hubClientBuffer)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(hubWriteTimeout))
		conn.Close()
		return
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) register(c *hubClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	observability.UpdateWSClients(len(h.clients))
	return true
}

func (h *Hub) unregister(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked must be called with h.mu held.
func (h *Hub) removeLocked(c *hubClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	observability.UpdateWSClients(len(h.clients))
}

// readLoop consumes control frames; subscriber payloads are ignored.
func (h *Hub) readLoop(c *hubClient) {
	defer h.unregister(c)

	c.conn.SetReadLimit(hubReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(hubPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(hubPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop is the only writer of c.conn.
func (h *Hub) writeLoop(c *hubClient) {
	ticker := time.NewTicker(hubPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ Sink = (*Hub)(nil)
