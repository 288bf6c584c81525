package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size allowed from peer
	maxFrameSize = 16384
)

// Frame types exchanged with clients.
const (
	FrameAuthenticate   = "authenticate"
	FrameJoinRoom       = "join_room"
	FrameLeaveRoom      = "leave_room"
	FrameChatMessage    = "chat_message"
	FrameDiceRoll       = "dice_roll"
	FrameCoinFlip       = "coin_flip"
	FrameRoomJoined     = "room_joined"
	FramePresenceUpdate = "presence_update"
	FrameNewMessage     = "new_message"
	FrameError          = "error"
)

// Message represents a websocket frame envelope
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// PresencePayload is pushed as room_joined and presence_update.
type PresencePayload struct {
	RoomID     uint     `json:"room_id"`
	Characters []Member `json:"characters"`
}

// ErrorPayload is sent as an error frame.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Client represents a connected websocket client. A client is unauthenticated
// until a valid authenticate frame binds it to a (user, character) pair.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	authenticated bool
	userID        uint
	characterID   uint
	characterName string
	canNarrate    bool

	rooms    map[uint]bool
	roomsMux sync.RWMutex
}

// readPump pumps frames from the websocket connection to the handler
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Uint("user_id", c.userID).Msg("websocket closed unexpectedly")
			}
			break
		}

		HandleIncomingFrame(c, frame)
	}
}

// writePump pumps frames from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(frame)

			// Add queued frames to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// sendFrame queues a frame for this client only.
func (c *Client) sendFrame(frameType string, payload interface{}) {
	select {
	case c.send <- mustFrame(frameType, payload):
	default:
	}
}

// sendError queues an error frame for this client only.
func (c *Client) sendError(message string) {
	c.sendFrame(FrameError, ErrorPayload{Message: message})
}

// joinRoom adds the client to a room
func (c *Client) joinRoom(roomID uint) {
	c.roomsMux.Lock()
	c.rooms[roomID] = true
	c.roomsMux.Unlock()
	c.hub.joinRoom(c, roomID)
}

// leaveRoom removes the client from a room
func (c *Client) leaveRoom(roomID uint) {
	c.roomsMux.Lock()
	delete(c.rooms, roomID)
	c.roomsMux.Unlock()
	c.hub.leaveRoom(c, roomID)
}

// inRoom checks if the client is in a specific room
func (c *Client) inRoom(roomID uint) bool {
	c.roomsMux.RLock()
	defer c.roomsMux.RUnlock()
	return c.rooms[roomID]
}
