// Package notify pushes link events to WebSocket clients subscribed to a
// room.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	sendBuffer     = 16
	maxMessageSize = 512
)

// RoomChecker reports whether a room exists.
type RoomChecker interface {
	RoomExists(ctx context.Context, id string) (bool, error)
}

type client struct {
	roomID    string
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub fans room events out to the sockets of that room.
type Hub struct {
	rooms    RoomChecker
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub(rooms RoomChecker, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  rooms,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]map[*client]struct{}),
	}
}

// ServeWS upgrades GET /ws/rooms/{roomID}. Unknown rooms get 404.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if roomID == "" {
		http.Error(w, "room id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	ok, err := h.rooms.RoomExists(ctx, roomID)
	cancel()
	if err != nil {
		h.logger.Error("check room", zap.String("room_id", roomID), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{roomID: roomID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)

	h.logger.Debug("room subscriber connected", zap.String("room_id", roomID))
}

// Publish delivers event to every socket of its room. A subscriber whose
// buffer is full is disconnected rather than waited for.
func (h *Hub) Publish(event models.RoomEvent) {
	if event.RoomID == "" {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode room event", zap.Error(err))
		return
	}

	var slow []*client

	h.mu.RLock()
	for c := range h.clients[event.RoomID] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow room subscriber", zap.String("room_id", c.roomID))
		h.unregister(c)
	}
}

// LinkResolved publishes the outcome of a room link's resolution.
func (h *Hub) LinkResolved(link models.Link) {
	h.Publish(models.RoomEvent{Type: models.EventLinkPreview, RoomID: link.RoomID, Link: link})
}

// Subscribers returns the number of sockets connected to roomID.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[roomID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*client]struct{})
	h.mu.Unlock()

	for _, room := range all {
		for c := range room {
			c.close()
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.roomID] == nil {
		h.clients[c.roomID] = make(map[*client]struct{})
	}
	h.clients[c.roomID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if room, ok := h.clients[c.roomID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.clients, c.roomID)
		}
	}
	h.mu.Unlock()

	c.close()
}

// readPump discards client messages and keeps the read deadline fresh.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("room subscriber read", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
