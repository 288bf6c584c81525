package models

import (
	"time"
)

// Message types carried by ChatMessage.MessageType.
const (
	MessageTypeText     = "text"
	MessageTypeNarrator = "narrator"
	MessageTypeDice     = "dice"
	MessageTypeCoin     = "coin"
)

// MaxMessageLength bounds chat message content on both the HTTP and the
// websocket path.
const MaxMessageLength = 5000

type ChatCategory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	ParentID  *uint          `gorm:"index" json:"parent_id"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Rooms     []ChatRoom     `gorm:"foreignKey:CategoryID" json:"rooms,omitempty"`
	Children  []ChatCategory `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

type ChatRoom struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"size:512" json:"description"`
	LongDescription string    `gorm:"type:text" json:"long_description"`
	Public          bool      `gorm:"not null;default:true" json:"public"`
	Password        string    `gorm:"size:255" json:"-"`
	CategoryID      uint      `gorm:"not null;index" json:"category_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Protected reports whether joining the room requires password verification.
func (r *ChatRoom) Protected() bool {
	return r.Password != ""
}

// ChatMessage is the live, append-only chat log. CharacterID is nil for
// narrator messages, which are attributed to the sending user instead.
type ChatMessage struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RoomID      uint       `gorm:"not null;index" json:"room_id"`
	CharacterID *uint      `gorm:"index" json:"character_id"`
	Character   *Character `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
	UserID      uint       `gorm:"not null" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	MessageType string     `gorm:"size:20;not null;default:'text'" json:"message_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ArchivedMessage is a read-only copy of a ChatMessage moved out of the live
// feed. ArchiveDate is the message's original creation date (UTC, YYYY-MM-DD),
// not the date the archive operation ran.
type ArchivedMessage struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	RoomID            uint       `gorm:"not null;index:idx_archive_room_date" json:"room_id"`
	CharacterID       *uint      `json:"character_id"`
	Character         *Character `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
	UserID            uint       `gorm:"not null" json:"user_id"`
	Content           string     `gorm:"type:text;not null" json:"content"`
	MessageType       string     `gorm:"size:20;not null" json:"message_type"`
	OriginalCreatedAt time.Time  `gorm:"not null" json:"original_created_at"`
	ArchiveDate       string     `gorm:"size:10;not null;index:idx_archive_room_date" json:"archive_date"`
	ArchivedAt        time.Time  `json:"archived_at"`
}

// ArchiveDateOf returns the archive bucket key for a message creation time.
func ArchiveDateOf(createdAt time.Time) string {
	return createdAt.UTC().Format("2006-01-02")
}
