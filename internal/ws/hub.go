package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

const broadcastBuffer = 64

// Event is the envelope every client receives.
type Event struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data"`
	User    string      `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Run serves the hub until ctx is done, then closes every client.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.log.Debug().Int("clients", n).Msg("client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug().Err(err).Msg("dropping client")
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues an event for every client. It never blocks the caller;
// when the buffer is full the event is dropped and logged.
func (h *Hub) Publish(eventType string, data interface{}, user, message string) {
	msg, err := json.Marshal(Event{
		Type:    eventType,
		Data:    data,
		User:    user,
		Message: message,
		SentAt:  time.Now(),
	})
	if err != nil {
		h.log.Error().Err(err).Str("event", eventType).Msg("marshal event")
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn().Str("event", eventType).Msg("broadcast buffer full, event dropped")
	}
}

// Serve is the per-connection loop for the websocket route.
func (h *Hub) Serve(c *websocket.Conn) {
	if !h.register(c) {
		return
	}
	defer h.unregister(c)

	for {
		// Keep alive loop
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

// register hands c to Run. It reports false once Run has stopped.
func (h *Hub) register(c *websocket.Conn) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *websocket.Conn) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}
