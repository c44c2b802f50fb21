// Package hub is the real-time layer: it fans simulation events out to the
// browsers connected to a room. Admin actions (swapping bays, ending a
// simulation, editing the port rotation) broadcast here so every player's
// screen updates without polling.
package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Event types pushed to clients.
const (
	EventSwapBays          = "swap_bays"
	EventEndSimulation     = "end_simulation"
	EventRankingsUpdated   = "rankings_updated"
	EventPortConfigUpdated = "port_config_updated"
)

// Event is the JSON envelope for all real-time messages.
type Event struct {
	Type    string      `json:"type"`
	RoomID  uint64      `json:"room_id"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client represents one connected browser tab, scoped to a room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uint64
	send   chan []byte
}

// Hub maintains the set of active clients and routes events to the clients
// of the matching room.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub. Call Run in a goroutine once at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Emit queues an event for delivery to every client in the event's room.
func (h *Hub) Emit(ev Event) {
	h.broadcast <- ev
}

// Run is the hub's event loop. It blocks, so run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case ev := <-h.broadcast:
			raw, err := json.Marshal(ev)
			if err != nil {
				log.Printf("hub: marshal event failed: %v", err)
				continue
			}
			for client := range h.clients {
				if client.roomID != ev.RoomID {
					continue
				}
				select {
				case client.send <- raw:
				default:
					// Full send buffer: assume the client hung, drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades GET /ws/rooms/:id to a WebSocket and attaches the client
// to that room's event stream.
func ServeWs(h *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
		}
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			log.Printf("hub: upgrade failed: %v", err)
			return nil
		}

		client := &Client{hub: h, conn: conn, roomID: roomID, send: make(chan []byte, 256)}
		h.register <- client

		// One slow client must not block the rest, so each gets its own pumps.
		go client.writePump()
		go client.readPump()
		return nil
	}
}

// readPump drains the socket until the peer disconnects. Inbound messages
// are ignored; the protocol is server-push only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("hub: read error: %v", err)
			}
			break
		}
	}
}

// writePump forwards queued events to the socket. Exits when send closes.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
}
