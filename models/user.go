package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Username      string      `gorm:"size:255;not null;unique" json:"username"`
	Email         string      `gorm:"size:255;not null;unique" json:"email"`
	Password      string      `gorm:"size:255;not null" json:"-"`
	Role          string      `gorm:"size:20;not null;default:'user'" json:"role"`
	Banned        bool        `gorm:"not null;default:false" json:"banned"`
	CanNarrate    bool        `gorm:"not null;default:false" json:"can_narrate"`
	NarratorColor string      `gorm:"size:20" json:"narrator_color"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Characters    []Character `json:"characters,omitempty"`
}

// BeforeSave hashes the password before saving to the database
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password != "" && !isBcryptHash(u.Password) {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// ValidatePassword checks if the provided password matches the stored hash
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// isBcryptHash guards against double-hashing when an already-persisted user is
// saved again (ban flags, narrator grants go through Save).
func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
