package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/touchline/internal/domain/types"
	"github.com/okian/touchline/pkg/logger"
	"github.com/okian/touchline/pkg/metrics"
)

// Websocket timing.
const (
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	writeWait         = 10 * time.Second
	defaultSendBuffer = 64
)

// Hub fans feed messages out to websocket clients. Broadcast never blocks:
// a client whose buffer is full is disconnected.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	upgrader websocket.Upgrader

	origins    []string
	sendBuffer int
	logger     logger.Logger
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithAllowedOrigins lists the Origin values accepted on upgrade. "*"
// accepts any origin. With none, only same-host origins are accepted.
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		h.origins = append([]string(nil), origins...)
	}
}

// WithSendBuffer sets how many frames may queue per client.
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithHubLogger sets the hub's logger.
func WithHubLogger(l logger.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:    make(map[*client]struct{}),
		sendBuffer: defaultSendBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("ws")
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.origins) == 0 {
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
	for _, o := range h.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// Broadcast sends msg to every connected client.
func (h *Hub) Broadcast(msg types.FeedMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(context.Background(), "failed to encode feed message",
			logger.String("type", msg.Type), logger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.logger.Warn(context.Background(), "websocket client too slow, disconnecting", logger.String("client", c.id))
			h.dropLocked(c)
		}
	}
}

// Serve upgrades the request and streams feed messages until the client
// goes away. greeting, when set, is the first frame the client receives.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, greeting *types.FeedMessage) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpgrade, err)
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, h.sendBuffer)}

	if greeting != nil {
		b, err := json.Marshal(greeting)
		if err == nil {
			c.send <- b
		}
	}
	if !h.register(c) {
		_ = conn.Close()
		return fmt.Errorf("%w: hub closed", ErrUpgrade)
	}

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.UpdateWebsocketClients(len(h.clients))
	h.logger.Debug(context.Background(), "websocket client connected",
		logger.String("client", c.id), logger.Int("clients", len(h.clients)))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// dropLocked closes c's send channel; its write pump then closes the socket.
func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.UpdateWebsocketClients(len(h.clients))
	h.logger.Debug(context.Background(), "websocket client disconnected", logger.String("client", c.id))
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// readPump discards client frames; it exists to process pongs and notice
// when the client leaves.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
