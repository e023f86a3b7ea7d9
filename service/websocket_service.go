package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512 * 1024
	clientBuffer   = 32
)

// Publisher pushes realtime messages to a user's open connections.
type Publisher interface {
	Publish(userID int64, msg types.WebSocketResponse) int
	// Deliver waits for buffer space instead of dropping. It returns the
	// number of connections that took the message.
	Deliver(ctx context.Context, userID int64, msg types.WebSocketResponse) int
}

type wsClient struct {
	userID int64
	conn   *websocket.Conn
	send   chan types.WebSocketResponse
	// done is closed when the write loop exits.
	done chan struct{}
}

// Hub tracks the realtime connections of every user. A user may hold
// several connections, e.g. one per browser tab.
type Hub struct {
	mu       sync.RWMutex
	clients  map[int64]map[*wsClient]struct{}
	upgrader websocket.Upgrader
}

func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		clients: make(map[int64]map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*wsClient]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.userID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Connected returns the number of open connections of userID.
func (h *Hub) Connected(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish never blocks. A connection with a full buffer misses the message.
func (h *Hub) Publish(userID int64, msg types.WebSocketResponse) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			zap.L().Warn("realtime buffer full, dropping message",
				zap.Int64("user_id", userID),
				zap.String("type", msg.Type),
			)
		}
	}
	return delivered
}

func (h *Hub) Deliver(ctx context.Context, userID int64, msg types.WebSocketResponse) int {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		select {
		case c.send <- msg:
			delivered++
		case <-c.done:
		case <-ctx.Done():
			return delivered
		}
	}
	return delivered
}

// Serve runs the connection of userID until it closes or ctx is done.
// onJoin runs once the connection is registered.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID int64, onJoin func(ctx context.Context)) {
	c := &wsClient{
		userID: userID,
		conn:   conn,
		send:   make(chan types.WebSocketResponse, clientBuffer),
		done:   make(chan struct{}),
	}
	h.register(c)
	defer h.unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer close(c.done)
		h.writePump(ctx, c)
	}()

	if onJoin != nil {
		onJoin(ctx)
	}
	h.readPump(c)
	cancel()
	<-c.done
}

func (h *Hub) readPump(c *wsClient) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Info("websocket read error", zap.Int64("user_id", c.userID), zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			h.reply(c, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: "invalid message"})
			continue
		}
		switch req.Type {
		case types.TypeWebsocketPing:
			h.reply(c, types.WebSocketResponse{Type: types.TypeWebsocketPong})
		default:
			h.reply(c, types.WebSocketResponse{Type: types.TypeWebsocketError, Payload: "unsupported message type"})
		}
	}
}

func (h *Hub) reply(c *wsClient, msg types.WebSocketResponse) {
	select {
	case c.send <- msg:
	default:
	}
}

func (h *Hub) writePump(ctx context.Context, c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			c.conn.Close()
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				zap.L().Info("websocket write error", zap.Int64("user_id", c.userID), zap.Error(err))
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}
