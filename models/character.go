package models

import (
	"time"
)

type Character struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	LastName    string     `gorm:"size:100;not null" json:"last_name"`
	BirthDate   time.Time  `json:"birth_date"`
	DeathDate   *time.Time `json:"death_date"`
	IsActive    bool       `gorm:"not null;default:false" json:"is_active"`
	Avatar      string     `gorm:"size:512" json:"avatar"`
	School      string     `gorm:"size:100" json:"school"`
	Description string     `gorm:"type:text" json:"description"`
	History     string     `gorm:"type:text" json:"history"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Inventory []InventoryItem `json:"inventory,omitempty"`
	Journal   []JournalEntry  `json:"journal,omitempty"`
}

func (ch *Character) FullName() string {
	return ch.FirstName + " " + ch.LastName
}

// Alive reports whether the character has no death date set.
func (ch *Character) Alive() bool {
	return ch.DeathDate == nil
}

type InventoryItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CharacterID uint      `gorm:"not null;index" json:"character_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type JournalEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CharacterID uint      `gorm:"not null;index" json:"character_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
