package ws_room

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	EventUserJoined  = "USER_JOINED"
	EventRoomRetired = "ROOM_RETIRED"
	EventMatchFound  = "MATCH_FOUND"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan Event
	userID   string
	roomCode string
}

type roomEvent struct {
	roomCode string
	event    Event
}

// Hub fans room events out to every websocket client attached to the
// room. mu guards the room/client maps; the channels serialize
// register/unregister against broadcasts.
type Hub struct {
	logger     *slog.Logger
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomEvent
	mu         sync.RWMutex

	// detach runs once a room has no clients left, so the room's
	// detector can release its watch subscription.
	detach func(roomCode string)
}

type HubOption func(*Hub)

func WithDetach(detach func(roomCode string)) HubOption {
	return func(h *Hub) {
		h.detach = detach
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		logger:     slog.Default(),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomEvent),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case roomEvent := <-h.broadcast:
			h.broadcastToRoom(roomEvent.roomCode, roomEvent.event)
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, exists := h.rooms[client.roomCode]; !exists {
		h.rooms[client.roomCode] = make(map[*Client]bool)
	}
	h.rooms[client.roomCode][client] = true

	h.logger.Info("client registered",
		"user_id", client.userID,
		"room", client.roomCode)
}

func (h *Hub) handleUnregister(client *Client) {
	h.remove(client)

	h.logger.Info("client unregistered",
		"user_id", client.userID,
		"room", client.roomCode)
}

// remove is the single path out of the hub: it drops the client from both
// maps and closes its send channel at most once, so an evicted client's
// own pump teardown arriving later is a no-op. Fires the detach hook when
// the client was the room's last.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()

	roomEmptied := false
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		if roomClients, exists := h.rooms[client.roomCode]; exists {
			delete(roomClients, client)
			if len(roomClients) == 0 {
				delete(h.rooms, client.roomCode)
				roomEmptied = true
			}
		}
	}
	h.mu.Unlock()

	if roomEmptied && h.detach != nil {
		h.detach(client.roomCode)
	}
}

func (h *Hub) broadcastToRoom(roomCode string, event Event) {
	var slow []*Client

	h.mu.RLock()
	if roomClients, exists := h.rooms[roomCode]; exists {
		for client := range roomClients {
			select {
			case client.send <- event:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Info("evicting slow client",
			"user_id", client.userID,
			"room", client.roomCode)
		h.remove(client)
	}
}

// NotifyMatches pushes newly discovered matches to the room. The detector
// calls this exactly once per movie id for the room's lifetime.
func (h *Hub) NotifyMatches(roomCode string, movieIDs []int64) {
	h.broadcast <- roomEvent{
		roomCode: roomCode,
		event: Event{
			Type: EventMatchFound,
			Payload: map[string]interface{}{
				"room_code": roomCode,
				"movie_ids": movieIDs,
			},
		},
	}
}

func (h *Hub) NotifyUserJoined(roomCode string, userID string, connected int) {
	h.broadcast <- roomEvent{
		roomCode: roomCode,
		event: Event{
			Type: EventUserJoined,
			Payload: map[string]interface{}{
				"room_code":       roomCode,
				"user_id":         userID,
				"connected_users": connected,
			},
		},
	}
}

func (h *Hub) NotifyRoomRetired(roomCode string) {
	h.broadcast <- roomEvent{
		roomCode: roomCode,
		event: Event{
			Type: EventRoomRetired,
			Payload: map[string]interface{}{
				"room_code": roomCode,
			},
		},
	}
}
