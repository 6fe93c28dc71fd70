package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"museumbot/internal/domain/models"

	"github.com/gorilla/websocket"
)

// EventType marks what happened to a booking.
type EventType string

const (
	EventBookingCommitted EventType = "booking_committed"
	EventBookingCancelled EventType = "booking_cancelled"
)

// Event is the message pushed to dashboard clients watching a museum.
type Event struct {
	Type         EventType `json:"type"`
	Museum       string    `json:"museum"`
	TicketNumber string    `json:"ticketNumber"`
	VisitDate    string    `json:"visitDate"`
	Session      string    `json:"session"`
	Seats        int       `json:"seats"`
	TotalPrice   int64     `json:"totalPrice"`
	Timestamp    int64     `json:"timestamp"`
}

// Client is one dashboard websocket connection, pinned to a museum.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	museum string
}

// Hub fans booking events out to the clients watching each museum. It
// satisfies the booking feed consumed by the confirmation and cancel
// services; Broadcast* calls never block the caller.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
	}
}

// Run is the hub's main loop; start it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.museum] == nil {
				h.clients[client.museum] = make(map[*Client]bool)
			}
			h.clients[client.museum][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.museum]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.museum)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("[WS] marshal failed: %v", err)
				continue
			}

			h.mu.RLock()
			clients := h.clients[event.Museum]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer; drop it rather than stall the feed.
					h.mu.Lock()
					delete(h.clients[event.Museum], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// BookingCommitted implements the services booking feed.
func (h *Hub) BookingCommitted(b models.Booking) {
	h.push(EventBookingCommitted, b)
}

// BookingCancelled implements the services booking feed.
func (h *Hub) BookingCancelled(b models.Booking) {
	h.push(EventBookingCancelled, b)
}

func (h *Hub) push(t EventType, b models.Booking) {
	event := &Event{
		Type:         t,
		Museum:       b.Museum,
		TicketNumber: b.TicketNumber,
		VisitDate:    b.VisitDate,
		Session:      b.Session,
		Seats:        b.Seats,
		TotalPrice:   b.TotalPrice,
		Timestamp:    time.Now().UnixMilli(),
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[WS] broadcast buffer full, dropping %s for %s", t, b.Museum)
	}
}

// ClientCount returns the number of clients watching a museum.
func (h *Hub) ClientCount(museum string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[museum])
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origin is enforced by the CORS layer in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve upgrades the request and registers the connection for the
// given museum's feed.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, museum string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64), museum: museum}
	h.register <- client
	go client.writePump()
	go client.readPump()
	return nil
}

// readPump drains inbound frames; the feed is one-directional, so
// client messages are discarded. Its exit drives unregistration.
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
