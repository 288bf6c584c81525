package database

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bradavice/roleplay_backend/models"
)

var DB *gorm.DB

// Connect establishes a connection to the database
func Connect() {
	var err error

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}

	password := os.Getenv("DB_PASS")
	if password == "" {
		password = "postgres"
	}

	dbname := os.Getenv("DB_NAME")
	if dbname == "" {
		dbname = "roleplay"
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	log.Info().Str("host", host).Str("db", dbname).Msg("database connection established")
}

// Migrate automatically migrates the database schema
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Character{},
		&models.InventoryItem{},
		&models.JournalEntry{},
		&models.InviteCode{},
		&models.ChatCategory{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.ArchivedMessage{},
		&models.Spell{},
		&models.WandComponent{},
		&models.OwlPostMessage{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	log.Info().Msg("database migration completed")
}
