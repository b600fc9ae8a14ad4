package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"dmchat/internal/domain"
	"dmchat/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxReadSize    = 4096
	sendBufferSize = 64
)

// Envelope is the frame every server push is wrapped in.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one live socket of a user. All writes go through send and are
// performed by a single writer goroutine, so frames on one connection keep
// their order.
type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

// enqueue hands a frame to the writer. It reports false if the client is
// gone or its buffer is full.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.WithError(err).WithField("user_id", c.userID).Warn("ws: write failed, dropping connection")
				metrics.DispatchFailures.WithLabelValues("write").Inc()
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// Hub manages active WebSocket connections keyed by user ID. A user may hold
// several connections at once; every one of them receives the user's events.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection for the given user and starts its writer.
func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	c := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
	go c.writePump()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		c.close()
		return c
	}
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	metrics.ActiveConnections.Inc()
	return c
}

// Unregister removes a connection and stops its writer.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			metrics.ActiveConnections.Dec()
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.close()
}

// Connections returns the number of live connections of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify sends each recipient its own payload. Users without a live
// connection are skipped. A connection that cannot keep up is dropped; the
// failure is logged and counted, never returned.
func (h *Hub) Notify(ctx context.Context, kind domain.EventKind, deliveries map[string]*domain.ViewMessage) {
	for userID, payload := range deliveries {
		if ctx.Err() != nil {
			return
		}
		frame, err := json.Marshal(Envelope{Type: string(kind), Payload: payload})
		if err != nil {
			log.WithError(err).Errorf("ws: %v: encode %s event", domain.ErrDispatch, kind)
			metrics.DispatchFailures.WithLabelValues("encode").Inc()
			continue
		}
		for _, c := range h.snapshot(userID) {
			if !c.enqueue(frame) {
				log.WithField("user_id", userID).Warnf("ws: %v: client buffer full, dropping connection", domain.ErrDispatch)
				metrics.DispatchFailures.WithLabelValues("slow_client").Inc()
				h.Unregister(c)
			}
		}
	}
}

// Close disconnects every client. Later registrations are closed at once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, set := range h.clients {
		for c := range set {
			c.close()
			metrics.ActiveConnections.Dec()
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) snapshot(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients[userID]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
