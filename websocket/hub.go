package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bradavice/roleplay_backend/metrics"
)

// Hub maintains the set of active clients and relays frames to room members
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Rooms mapping (roomID -> clients)
	rooms map[uint]map[*Client]bool

	// Mutex for clients and rooms maps
	roomsMux sync.Mutex

	// Characters currently joined per room, in join order
	presence *Presence

	// Users that passed the HTTP password check for protected rooms
	access *accessRegistry

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rooms:      make(map[uint]map[*Client]bool),
		presence:   NewPresence(),
		access:     newAccessRegistry(),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.roomsMux.Lock()
			h.clients[client] = true
			h.roomsMux.Unlock()
			metrics.WsConnections.Inc()
		case client := <-h.unregister:
			h.roomsMux.Lock()
			h.dropClientLocked(client)
			h.roomsMux.Unlock()
		}
	}
}

// joinRoom adds a client to a room and records its character's presence.
func (h *Hub) joinRoom(client *Client, roomID uint) {
	h.roomsMux.Lock()
	defer h.roomsMux.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.presence.Join(roomID, Member{CharacterID: client.characterID, Name: client.characterName})
}

// leaveRoom removes a client from a room. The character stays present as long
// as another connection of the same character is still in the room.
func (h *Hub) leaveRoom(client *Client, roomID uint) {
	h.roomsMux.Lock()
	defer h.roomsMux.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
	if !h.characterInRoomLocked(roomID, client.characterID) {
		h.presence.Leave(roomID, client.characterID)
		h.broadcastToRoomLocked(roomID, mustFrame(FramePresenceUpdate, PresencePayload{
			RoomID:     roomID,
			Characters: h.presence.ListMembers(roomID),
		}))
	}
}

// dropClientLocked removes a client from the hub entirely: every room it had
// joined (with presence updates to the remaining members), the client set,
// and finally its send channel. Both the unregister path and the slow-client
// drop funnel through here, so a dropped client never lingers in another
// room's map with a closed channel. Safe to call again for a client that was
// already dropped. Caller must hold roomsMux.
func (h *Hub) dropClientLocked(client *Client) {
	for roomID, clients := range h.rooms {
		if _, ok := clients[client]; !ok {
			continue
		}
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
		if !h.characterInRoomLocked(roomID, client.characterID) {
			h.presence.Leave(roomID, client.characterID)
			h.broadcastToRoomLocked(roomID, mustFrame(FramePresenceUpdate, PresencePayload{
				RoomID:     roomID,
				Characters: h.presence.ListMembers(roomID),
			}))
		}
	}
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.WsConnections.Dec()
	}
}

// characterInRoomLocked reports whether any connection of the character is
// still in the room. Caller must hold roomsMux.
func (h *Hub) characterInRoomLocked(roomID, characterID uint) bool {
	for c := range h.rooms[roomID] {
		if c.characterID == characterID {
			return true
		}
	}
	return false
}

// broadcastToRoom sends a frame to all clients in a room
func (h *Hub) broadcastToRoom(roomID uint, frame []byte) {
	h.roomsMux.Lock()
	defer h.roomsMux.Unlock()
	h.broadcastToRoomLocked(roomID, frame)
}

// broadcastToRoomExcept sends a frame to every client in a room except one.
// Used for presence updates that the joining socket gets as room_joined.
func (h *Hub) broadcastToRoomExcept(roomID uint, frame []byte, except *Client) {
	h.roomsMux.Lock()
	defer h.roomsMux.Unlock()
	for client := range h.rooms[roomID] {
		if client == except {
			continue
		}
		select {
		case client.send <- frame:
		default:
			h.dropClientLocked(client)
		}
	}
}

func (h *Hub) broadcastToRoomLocked(roomID uint, frame []byte) {
	for client := range h.rooms[roomID] {
		select {
		case client.send <- frame:
		default:
			// Slow client, drop it rather than block the room.
			h.dropClientLocked(client)
		}
	}
}

// BroadcastToRoom sends a frame to all clients currently joined to a room.
// Used by the HTTP send fallback after persisting a message.
func BroadcastToRoom(roomID uint, frameType string, payload interface{}) {
	frame, err := newFrame(frameType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", frameType).Msg("failed to marshal broadcast frame")
		return
	}
	hub.broadcastToRoom(roomID, frame)
}

// RoomMembers returns the characters currently joined to a room.
func RoomMembers(roomID uint) []Member {
	return hub.presence.ListMembers(roomID)
}

func newFrame(frameType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: frameType, Payload: payload})
}

// mustFrame is newFrame for server-built payloads that cannot fail to marshal.
func mustFrame(frameType string, payload interface{}) []byte {
	frame, err := newFrame(frameType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", frameType).Msg("failed to marshal frame")
		return []byte(`{"type":"error","payload":{"message":"internal error"}}`)
	}
	return frame
}

// Global hub instance
var hub *Hub

// InitHub initializes the global hub
func InitHub() {
	hub = NewHub()
	go hub.Run()
}
