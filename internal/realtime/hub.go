package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/helpdesk-br/chamado-service/internal/events"
)

// Hub fans domain events out to connected WebSocket clients. Clients that
// cannot keep up with the broadcast rate are dropped rather than blocking
// publishers.
type Hub struct {
	logger     *zap.Logger
	sendBuffer int
	writeWait  time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// NewHub builds a hub.
func NewHub(logger *zap.Logger, sendBuffer int, writeWait time.Duration) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}
	return &Hub{
		logger:     logger,
		sendBuffer: sendBuffer,
		writeWait:  writeWait,
		clients:    make(map[*client]struct{}),
	}
}

// ServeConn owns a WebSocket connection for its lifetime: registers it,
// pumps outbound messages and unregisters when the peer goes away.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan []byte, h.sendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket client connected", zap.Int("clients", count))

	go cl.writeLoop(h.writeWait)

	// inbound frames are ignored; the read loop only detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(cl)
	h.logger.Info("websocket client disconnected")
}

func (c *client) writeLoop(writeWait time.Duration) {
	defer c.conn.Close() //nolint:errcheck
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}

// BroadcastEvent serializes the event and broadcasts it to every client.
func (h *Hub) BroadcastEvent(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal event", zap.Error(err))
		return
	}
	h.Broadcast(data)
}

// Broadcast delivers raw bytes to every connected client, dropping clients
// whose send buffers are full.
func (h *Hub) Broadcast(data []byte) {
	var stale []*client

	h.mu.Lock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			stale = append(stale, cl)
			delete(h.clients, cl)
		}
	}
	h.mu.Unlock()

	for _, cl := range stale {
		cl.close()
		h.logger.Warn("dropping slow websocket client")
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects all clients.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, cl := range clients {
		cl.close()
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	_, present := h.clients[cl]
	delete(h.clients, cl)
	h.mu.Unlock()
	if present {
		cl.close()
	}
}
