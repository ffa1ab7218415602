package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event names pushed to connected dashboards.
const (
	EventNewBooking     = "new-booking"
	EventBookingPayment = "booking-payment"
)

// Envelope is the wire format for a broadcast event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub maintains the set of connected dashboard clients and fans booking
// events out to them. Delivery is best-effort: publishing never blocks the
// triggering request, and a client that is offline when an event fires will
// not see it until its next full data reload.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound events to fan out
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Dashboard connected: %s (%s), total clients: %d",
				client.Email, client.Role, h.GetClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("🔴 [WEBSOCKET] Dashboard disconnected: %s, remaining clients: %d",
				client.Email, h.GetClientCount())

		case data := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if client.Role != "admin" {
					continue
				}
				select {
				case client.send <- data:
				default:
					// Client buffer full, drop the event for this client
					log.Printf("⚠️ Client buffer full, skipping: %s", client.Email)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for all connected admin dashboards. Fire and
// forget: if the hub's buffer is full the event is dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("❌ Failed to marshal %s event: %v", event, err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		log.Printf("⚠️ Broadcast buffer full, dropping %s event", event)
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
