package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	sendBuffer   = 64
)

// Message is the frame pushed to dashboard sockets
type Message struct {
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
	SentAt time.Time   `json:"sentAt"`
}

type client struct {
	agencyID string
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans ledger and dispatch events out to the sockets of one agency.
// Each socket has its own writer goroutine; a socket whose buffer is full is dropped.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Notify implements service.Notifier
func (h *Hub) Notify(agencyID, eventType string, payload interface{}) {
	frame, err := json.Marshal(Message{Type: eventType, Data: payload, SentAt: time.Now().UTC()})
	if err != nil {
		h.log.Error("Failed to marshal realtime message", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.clients[agencyID] {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("Dropping slow realtime client", zap.String("agency_id", agencyID))
		h.unregister(c)
	}
}

// Clients returns the number of open sockets for an agency
func (h *Hub) Clients(agencyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[agencyID])
}

// Serve upgrades the request and blocks until the socket closes
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, agencyID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{agencyID: agencyID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.log.Info("Realtime client connected", zap.String("agency_id", agencyID))

	go h.writeLoop(c)
	h.readLoop(c)
	return nil
}

// Close drops every socket
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for agencyID, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, agencyID)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.agencyID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.agencyID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.agencyID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.agencyID)
		}
	}
	c.close()
}

// readLoop discards client frames; it exists to observe pongs and disconnects
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.log.Info("Realtime client disconnected", zap.String("agency_id", c.agencyID))
	}()

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

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.log.Debug("Realtime write failed", zap.String("agency_id", c.agencyID), zap.Error(err))
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
