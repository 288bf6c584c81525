package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/models"
	"github.com/bradavice/roleplay_backend/websocket"
)

// reattributeWindow bounds how long a sender may reassign a message to a
// different character after posting it.
const reattributeWindow = 5 * time.Minute

type CreateMessageInput struct {
	RoomID      uint   `json:"room_id" binding:"required" example:"1"`
	Content     string `json:"content" binding:"required" example:"Ahoj"`
	MessageType string `json:"message_type" example:"text"`
}

type ReattributeMessageInput struct {
	CharacterID uint `json:"character_id" binding:"required"`
}

// GetRoomMessages godoc
// @Summary Get live messages for a room
// @Description Returns the room's live message feed in ascending creation order
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/chat/rooms/{id}/messages [get]
func GetRoomMessages(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var room models.ChatRoom
	if err := database.DB.First(&room, roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var messages []models.ChatMessage
	if err := database.DB.Where("room_id = ?", roomID).
		Order("created_at ASC").
		Preload("Character").
		Preload("User").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CreateMessage godoc
// @Summary Send a chat message over HTTP
// @Description Fallback send path when the websocket is unavailable; persists the message and broadcasts it to joined sockets
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body CreateMessageInput true "Message"
// @Success 201 {object} map[string]interface{} "Message sent successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /api/chat/messages [post]
func CreateMessage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Content) > models.MaxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is too long"})
		return
	}

	var room models.ChatRoom
	if err := database.DB.First(&room, input.RoomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	messageType := input.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if messageType == models.MessageTypeNarrator && !user.CanNarrate {
		c.JSON(http.StatusForbidden, gin.H{"error": "Narrator permission required"})
		return
	}
	if messageType != models.MessageTypeText && messageType != models.MessageTypeNarrator {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported message type"})
		return
	}

	// HTTP sends speak as the user's active character.
	var character models.Character
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).First(&character).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active character"})
		return
	}
	if !character.Alive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Active character is dead"})
		return
	}

	message, err := websocket.SaveMessage(userID, character.ID, input.RoomID, input.Content, messageType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	websocket.BroadcastToRoom(input.RoomID, websocket.FrameNewMessage, websocket.NewMessagePayload{Message: message})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}

// ReattributeMessage godoc
// @Summary Reassign a recent message to another of the sender's characters
// @Description Allowed only for the sender and only within a short window after posting
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param body body ReattributeMessageInput true "Target character"
// @Success 200 {object} map[string]interface{} "Message updated"
// @Failure 403 {object} map[string]string "Not the sender or window expired"
// @Failure 404 {object} map[string]string "Message not found"
// @Router /api/chat/messages/{id}/character [put]
func ReattributeMessage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	var input ReattributeMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var message models.ChatMessage
	if err := database.DB.First(&message, messageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	if message.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own messages"})
		return
	}
	if time.Since(message.CreatedAt) > reattributeWindow {
		c.JSON(http.StatusForbidden, gin.H{"error": "Message can no longer be edited"})
		return
	}

	var character models.Character
	if err := database.DB.Where("id = ? AND user_id = ?", input.CharacterID, userID).First(&character).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Character not found"})
		return
	}

	if err := database.DB.Model(&message).Update("character_id", character.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
		return
	}

	database.DB.Preload("Character").Preload("User").First(&message, message.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Message updated successfully",
		"data":    message,
	})
}
