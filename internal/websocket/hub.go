package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
	"github.com/gorilla/websocket"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeFlightCancelled MessageType = "flight_cancelled"
	MessageTypeFlightDelayed   MessageType = "flight_delayed"
	MessageTypeSaleDrained     MessageType = "sale_drained"
)

// Message represents a WebSocket message
type Message struct {
	Type         MessageType           `json:"type"`
	FlightID     string                `json:"flightId,omitempty"`
	DelayMinutes int                   `json:"delayMinutes,omitempty"`
	Refunds      []models.RefundNotice `json:"refunds,omitempty"`
	Succeeded    int                   `json:"succeeded,omitempty"`
	Failed       int                   `json:"failed,omitempty"`
	Message      string                `json:"message,omitempty"`
	Timestamp    int64                 `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans flight events out to all connected clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("WebSocket: Client registered (total: %d)", len(h.clients))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("WebSocket: Client unregistered (remaining: %d)", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("WebSocket: Failed to marshal message: %v", err)
				continue
			}

			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- data:
				default:
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// BroadcastFlightCancelled notifies clients that a flight was cancelled,
// including the automatic refunds it triggered.
func (h *Hub) BroadcastFlightCancelled(flightID string, refunds []models.RefundNotice) {
	h.broadcast <- &Message{
		Type:      MessageTypeFlightCancelled,
		FlightID:  flightID,
		Refunds:   refunds,
		Message:   "Flight cancelled - held tickets were refunded automatically",
		Timestamp: time.Now().UnixMilli(),
	}
}

// BroadcastFlightDelayed notifies clients that a flight was delayed.
func (h *Hub) BroadcastFlightDelayed(flightID string, minutes int) {
	h.broadcast <- &Message{
		Type:         MessageTypeFlightDelayed,
		FlightID:     flightID,
		DelayMinutes: minutes,
		Timestamp:    time.Now().UnixMilli(),
	}
}

// BroadcastSaleDrained reports the outcome counts of a reservation drain.
func (h *Hub) BroadcastSaleDrained(succeeded, failed int) {
	h.broadcast <- &Message{
		Type:      MessageTypeSaleDrained,
		Succeeded: succeeded,
		Failed:    failed,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// HandleWebSocket upgrades the connection and attaches it to the hub.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket: Upgrade failed: %v", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames; the event stream is one-way. It exists
// to notice closed connections and to answer pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
