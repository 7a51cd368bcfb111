package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/wayfinder-core/internal/infrastructure/config"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/logging"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

// WebSocket message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"
)

// EventAll in Subscription.Events selects every event type.
const EventAll = "*"

const (
	wsSendBufferSize = 256

	defaultPingInterval   = 30 * time.Second
	defaultPongTimeout    = 10 * time.Second
	defaultMaxMessageSize = 8192
)

var errNoEvents = errors.New("events is required")

// WSMessage is the envelope for every frame sent to a client.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// wsRequest is a frame received from a client.
type wsRequest struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Subscription selects the service events a client receives.
//
// Events lists event types, or "*" for all. Rooms narrows route events to
// queries starting or ending in one of the rooms. Gates and Paths narrow
// floorplan.updated to changes of the listed ids; once either is set, only
// listed gates and paths are delivered. Whole-plan replacements always are.
// A new subscription replaces the previous one.
type Subscription struct {
	Events []string `json:"events"`
	Rooms  []string `json:"rooms,omitempty"`
	Gates  []string `json:"gates,omitempty"`
	Paths  []string `json:"paths,omitempty"`
}

// eventFilter is the compiled form of a Subscription.
type eventFilter struct {
	all    bool
	events map[wayfinding.EventType]bool
	rooms  map[string]bool
	gates  map[string]bool
	paths  map[string]bool
}

func newEventFilter(sub Subscription) (*eventFilter, error) {
	if len(sub.Events) == 0 {
		return nil, errNoEvents
	}
	f := &eventFilter{
		events: make(map[wayfinding.EventType]bool, len(sub.Events)),
		rooms:  toSet(sub.Rooms),
		gates:  toSet(sub.Gates),
		paths:  toSet(sub.Paths),
	}
	for _, name := range sub.Events {
		switch et := wayfinding.EventType(name); et {
		case EventAll:
			f.all = true
		case wayfinding.EventRouteComputed, wayfinding.EventRouteFailed, wayfinding.EventFloorPlanUpdated:
			f.events[et] = true
		default:
			return nil, fmt.Errorf("unknown event type %q", name)
		}
	}
	return f, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// matches reports whether ev passes the filter. A nil filter matches nothing.
func (f *eventFilter) matches(ev wayfinding.Event) bool {
	if f == nil || (!f.all && !f.events[ev.Type]) {
		return false
	}

	switch ev.Type {
	case wayfinding.EventRouteComputed, wayfinding.EventRouteFailed:
		if len(f.rooms) == 0 {
			return true
		}
		return ev.Query != nil && (f.rooms[ev.Query.From] || f.rooms[ev.Query.To])

	case wayfinding.EventFloorPlanUpdated:
		c := ev.Change
		if c == nil || (len(f.gates) == 0 && len(f.paths) == 0) {
			return true
		}
		switch c.Kind {
		case wayfinding.ChangeGate:
			return f.gates[c.ID]
		case wayfinding.ChangePath:
			return f.paths[c.ID]
		default:
			return true
		}
	}
	return true
}

// Hub fans service events out to connected WebSocket clients.
type Hub struct {
	logger  *logging.Logger
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	dropped atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	c.close()
	h.logger.Debug("websocket client disconnected", "clients", n)
}

// Publish sends ev to every client whose subscription matches it. Clients
// with a full buffer miss the event; the loss is counted in Dropped.
func (h *Hub) Publish(ev wayfinding.Event) {
	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: string(ev.Type),
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
		Payload:   ev,
	})
	if err != nil {
		h.logger.Error("failed to marshal websocket event", "event", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.wants(ev) {
			continue
		}
		if !c.enqueue(data) {
			h.dropped.Add(1)
			h.logger.Debug("websocket client buffer full, event dropped", "event", ev.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many events were skipped for slow clients.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// wsClient is one WebSocket connection and its subscription.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
	filter *eventFilter
}

func newWSClient(hub *Hub, conn *websocket.Conn) *wsClient {
	return &wsClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}
}

func (c *wsClient) wants(ev wayfinding.Event) bool {
	c.mu.Lock()
	f := c.filter
	c.mu.Unlock()
	return f.matches(ev)
}

func (c *wsClient) setFilter(f *eventFilter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// enqueue queues data without blocking. It returns false when the client
// is closed or its buffer is full.
func (c *wsClient) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close ends the write pump. It is safe to call more than once.
func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// wsTimings holds the keepalive settings with defaults applied.
type wsTimings struct {
	pingInterval   time.Duration
	pongWait       time.Duration
	maxMessageSize int64
}

func newWSTimings(cfg config.WebSocketConfig) wsTimings {
	t := wsTimings{
		pingInterval:   time.Duration(cfg.PingInterval) * time.Second,
		pongWait:       time.Duration(cfg.PongTimeout) * time.Second,
		maxMessageSize: int64(cfg.MaxMessageSize),
	}
	if t.pingInterval <= 0 {
		t.pingInterval = defaultPingInterval
	}
	if t.pongWait <= 0 {
		t.pongWait = defaultPongTimeout
	}
	if t.maxMessageSize <= 0 {
		t.maxMessageSize = defaultMaxMessageSize
	}
	return t
}

// handleWebSocket upgrades the connection. The client receives nothing
// until it subscribes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.isAllowedOrigin(origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newWSClient(s.hub, conn)
	s.hub.register(c)

	t := newWSTimings(s.wsCfg)
	go c.writePump(t)
	go c.readPump(t)
}

func (c *wsClient) readPump(t wsTimings) {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	extend := func() error {
		return c.conn.SetReadDeadline(time.Now().Add(t.pingInterval + t.pongWait))
	}
	c.conn.SetReadLimit(t.maxMessageSize)
	_ = extend()
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		// Kiosk browsers may not answer protocol pings; any frame counts.
		_ = extend()
		c.handle(data)
	}
}

func (c *wsClient) writePump(t wsTimings) {
	ticker := time.NewTicker(t.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(t.pongWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(t.pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle processes one client frame.
func (c *wsClient) handle(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.replyError("", "invalid JSON message")
		return
	}

	switch req.Type {
	case WSTypeSubscribe:
		var sub Subscription
		if err := json.Unmarshal(req.Payload, &sub); err != nil {
			c.replyError(req.ID, "invalid subscribe payload")
			return
		}
		f, err := newEventFilter(sub)
		if err != nil {
			c.replyError(req.ID, err.Error())
			return
		}
		c.setFilter(f)
		c.hub.logger.Debug("websocket client subscribed",
			"events", sub.Events, "rooms", sub.Rooms, "gates", sub.Gates, "paths", sub.Paths)
		c.reply(req.ID, WSTypeResponse, map[string]any{"subscription": sub})

	case WSTypeUnsubscribe:
		c.setFilter(nil)
		c.reply(req.ID, WSTypeResponse, map[string]any{"subscription": nil})

	case WSTypePing:
		c.reply(req.ID, WSTypePong, nil)

	default:
		c.replyError(req.ID, "unknown message type: "+req.Type)
	}
}

func (c *wsClient) reply(id, msgType string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		return
	}
	c.enqueue(data)
}

func (c *wsClient) replyError(id, message string) {
	c.reply(id, WSTypeError, map[string]string{"message": message})
}
