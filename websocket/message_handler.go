package websocket

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/metrics"
	"github.com/bradavice/roleplay_backend/models"
	"github.com/bradavice/roleplay_backend/utils"
)

// NewMessagePayload wraps a persisted message for the new_message frame.
type NewMessagePayload struct {
	Message models.ChatMessage `json:"message"`
}

// AuthenticatePayload binds a socket to a (user, character) pair. Token may
// be omitted when it was already supplied as a query parameter on connect.
type AuthenticatePayload struct {
	Token       string `json:"token"`
	CharacterID uint   `json:"character_id"`
}

// RoomPayload carries the room ID for join/leave/dice/coin frames.
type RoomPayload struct {
	RoomID uint `json:"room_id"`
}

// ChatPayload is the client-sent chat_message payload.
type ChatPayload struct {
	RoomID      uint   `json:"room_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
}

var coinFaces = [2]string{"panna", "orel"}

// HandleIncomingFrame processes one incoming websocket frame
func HandleIncomingFrame(client *Client, frameBytes []byte) {
	var msg Message
	if err := json.Unmarshal(frameBytes, &msg); err != nil {
		client.sendError("malformed frame")
		return
	}

	if msg.Type != FrameAuthenticate && !client.authenticated {
		client.sendError("not authenticated")
		return
	}

	switch msg.Type {
	case FrameAuthenticate:
		var payload AuthenticatePayload
		if !decodePayload(client, msg.Payload, &payload) {
			return
		}
		handleAuthenticate(client, payload)
	case FrameJoinRoom:
		var payload RoomPayload
		if !decodePayload(client, msg.Payload, &payload) {
			return
		}
		handleJoinRoom(client, payload.RoomID)
	case FrameLeaveRoom:
		var payload RoomPayload
		if !decodePayload(client, msg.Payload, &payload) {
			return
		}
		client.leaveRoom(payload.RoomID)
	case FrameChatMessage:
		var payload ChatPayload
		if !decodePayload(client, msg.Payload, &payload) {
			return
		}
		handleChatMessage(client, payload)
	case FrameDiceRoll:
		var payload RoomPayload
		if !decodePayload(client, msg.Payload, &payload) {
			return
		}
		roll := 1 + rand.Intn(10)
		content := fmt.Sprintf("%s hodil(a) kostkou: %d", client.characterName, roll)
		handleGameAction(client, payload.RoomID, models.MessageTypeDice, content)
	case FrameCoinFlip:
		var payload RoomPayload
		if !decodePayload(client, msg.Payload, &payload) {
			return
		}
		content := fmt.Sprintf("%s hodil(a) mincí: %s", client.characterName, coinFaces[rand.Intn(2)])
		handleGameAction(client, payload.RoomID, models.MessageTypeCoin, content)
	default:
		client.sendError("unknown frame type")
	}
}

// decodePayload remarshals the loosely-typed payload into the expected
// struct. Sends an error frame and returns false on failure.
func decodePayload(client *Client, payload interface{}, out interface{}) bool {
	raw, err := json.Marshal(payload)
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		client.sendError("malformed payload")
		return false
	}
	return true
}

func handleAuthenticate(client *Client, payload AuthenticatePayload) {
	userID := client.userID
	if payload.Token != "" {
		id, _, err := utils.ParseToken(payload.Token)
		if err != nil {
			client.sendError("invalid token")
			return
		}
		userID = id
	}
	if userID == 0 {
		client.sendError("authentication token required")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		client.sendError("user not found")
		return
	}
	if user.Banned {
		client.sendError("account is banned")
		return
	}

	var character models.Character
	if err := database.DB.Where("id = ? AND user_id = ?", payload.CharacterID, userID).First(&character).Error; err != nil {
		client.sendError("character not found")
		return
	}
	if !character.Alive() {
		client.sendError("character is dead")
		return
	}

	client.userID = user.ID
	client.characterID = character.ID
	client.characterName = character.FullName()
	client.canNarrate = user.CanNarrate
	client.authenticated = true

	log.Debug().Uint("user_id", user.ID).Uint("character_id", character.ID).Msg("websocket authenticated")
}

func handleJoinRoom(client *Client, roomID uint) {
	var room models.ChatRoom
	if err := database.DB.First(&room, roomID).Error; err != nil {
		client.sendError("room not found")
		return
	}
	if room.Protected() && !client.hub.access.allowed(client.userID, room.ID) {
		client.sendError("room password not verified")
		return
	}

	client.joinRoom(room.ID)

	members := client.hub.presence.ListMembers(room.ID)
	client.sendFrame(FrameRoomJoined, PresencePayload{RoomID: room.ID, Characters: members})
	client.hub.broadcastToRoomExcept(room.ID, mustFrame(FramePresenceUpdate, PresencePayload{
		RoomID:     room.ID,
		Characters: members,
	}), client)
}

func handleChatMessage(client *Client, payload ChatPayload) {
	if !client.inRoom(payload.RoomID) {
		client.sendError("join the room before sending messages")
		return
	}
	if len(payload.Content) == 0 || len(payload.Content) > models.MaxMessageLength {
		client.sendError(fmt.Sprintf("message length must be between 1 and %d", models.MaxMessageLength))
		return
	}

	messageType := payload.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	switch messageType {
	case models.MessageTypeText:
	case models.MessageTypeNarrator:
		if !client.canNarrate {
			client.sendError("narrator permission required")
			return
		}
	default:
		client.sendError("unsupported message type")
		return
	}

	message, err := SaveMessage(client.userID, client.characterID, payload.RoomID, payload.Content, messageType)
	if err != nil {
		// No partial broadcast: the sender learns about the failure, the
		// room never sees the message.
		log.Error().Err(err).Uint("room_id", payload.RoomID).Msg("failed to persist chat message")
		client.sendError("failed to save message")
		return
	}

	client.hub.broadcastToRoom(payload.RoomID, mustFrame(FrameNewMessage, NewMessagePayload{Message: message}))
}

// handleGameAction persists and broadcasts a dice or coin result like a
// normal chat message.
func handleGameAction(client *Client, roomID uint, messageType, content string) {
	if !client.inRoom(roomID) {
		client.sendError("join the room before playing")
		return
	}

	message, err := SaveMessage(client.userID, client.characterID, roomID, content, messageType)
	if err != nil {
		log.Error().Err(err).Uint("room_id", roomID).Msg("failed to persist game action")
		client.sendError("failed to save message")
		return
	}

	client.hub.broadcastToRoom(roomID, mustFrame(FrameNewMessage, NewMessagePayload{Message: message}))
}

// SaveMessage persists a chat message and returns it with the character and
// user preloaded. Narrator messages carry no character.
func SaveMessage(userID, characterID, roomID uint, content, messageType string) (models.ChatMessage, error) {
	message := models.ChatMessage{
		RoomID:      roomID,
		UserID:      userID,
		Content:     content,
		MessageType: messageType,
	}
	if messageType != models.MessageTypeNarrator {
		message.CharacterID = &characterID
	}

	if err := database.DB.Create(&message).Error; err != nil {
		return message, err
	}
	metrics.ChatMessagesTotal.With(prometheus.Labels{"type": messageType}).Inc()

	if err := database.DB.Preload("Character").Preload("User").First(&message, message.ID).Error; err != nil {
		log.Error().Err(err).Uint("message_id", message.ID).Msg("failed to reload message associations")
	}

	return message, nil
}
