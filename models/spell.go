package models

import (
	"time"
)

type Spell struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;unique" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwlPostMessage is in-world mail between characters. The table is part of
// the shared schema; the mail endpoints live outside this service.
type OwlPostMessage struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	SenderID    uint       `gorm:"not null;index" json:"sender_id"`
	Sender      *Character `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uint       `gorm:"not null;index" json:"recipient_id"`
	Recipient   *Character `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Subject     string     `gorm:"size:255" json:"subject"`
	Body        string     `gorm:"type:text" json:"body"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
