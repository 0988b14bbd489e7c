package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/formdrop/formdrop/internal/logging"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Size of a subscriber's send buffer
	sendBufferSize = 64
)

// UploadEvent is broadcast to /events subscribers for every accepted upload
type UploadEvent struct {
	CorrelationID string            `json:"correlation_id,omitempty"`
	RemoteAddr    string            `json:"remote_addr"`
	Files         []StoredFile      `json:"files"`
	Fields        map[string]string `json:"fields,omitempty"`
	ReceivedAt    time.Time         `json:"received_at"`
}

// Hub fans upload events out to WebSocket subscribers. Subscribers with
// a full send buffer are dropped rather than allowed to stall the
// broadcast path.
type Hub struct {
	subscribers map[*subscriber]struct{}
	register    chan *subscriber
	unregister  chan *subscriber
	events      chan UploadEvent
	done        chan struct{}
}

// NewHub creates an event hub. Call Run before broadcasting.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		events:      make(chan UploadEvent, 16),
		done:        make(chan struct{}),
	}
}

// Run owns the subscriber set. It exits when Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.subscribers[sub] = struct{}{}
		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
			}
		case event := <-h.events:
			data, err := json.Marshal(event)
			if err != nil {
				logging.Error("Failed to encode upload event", zap.Error(err))
				continue
			}
			for sub := range h.subscribers {
				select {
				case sub.send <- data:
				default:
					// Slow subscriber: drop it
					delete(h.subscribers, sub)
					close(sub.send)
				}
			}
		case <-h.done:
			for sub := range h.subscribers {
				delete(h.subscribers, sub)
				close(sub.send)
			}
			return
		}
	}
}

// Broadcast queues an event for delivery to all subscribers
func (h *Hub) Broadcast(event UploadEvent) {
	select {
	case h.events <- event:
	case <-h.done:
	}
}

// Stop shuts the hub down and disconnects all subscribers
func (h *Hub) Stop() {
	close(h.done)
}

// subscriber is one connected /events WebSocket client
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Observers are LAN tools; cross-origin dashboards are fine
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents upgrades the connection and streams upload events
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	logging.LogConnection(r.RemoteAddr, "events_subscribed")

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	s.hub.register <- sub

	go sub.writePump()
	go sub.readPump(s.hub, r.RemoteAddr)
}

// readPump discards inbound messages and detects disconnects
func (sub *subscriber) readPump(hub *Hub, remoteAddr string) {
	defer func() {
		select {
		case hub.unregister <- sub:
		case <-hub.done:
		}
		_ = sub.conn.Close()
		logging.LogConnection(remoteAddr, "events_unsubscribed")
	}()

	sub.conn.SetReadLimit(512)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump delivers queued events and keeps the connection alive
func (sub *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case data, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
