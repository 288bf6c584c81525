package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/metrics"
	"github.com/bradavice/roleplay_backend/models"
)

// archivePageSize is the fixed page size of the admin archive browser.
const archivePageSize = 50

// narratorName labels narrator messages in transcripts.
const narratorName = "Vypravěč"

// ArchiveDateCount is one row of the archive-dates listing.
type ArchiveDateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TranscriptEntry is one line of an exported transcript.
type TranscriptEntry struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
}

// ArchiveRoom godoc
// @Summary Archive a room's live messages
// @Description Moves every live message into the archive, bucketed by the message's original creation date. All-or-nothing: on failure the live feed is untouched.
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "Archive result"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/chat/rooms/{id}/archive [post]
func ArchiveRoom(c *gin.Context) {
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

	var archived int
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var messages []models.ChatMessage
		if err := tx.Where("room_id = ?", room.ID).Order("created_at ASC").Find(&messages).Error; err != nil {
			return err
		}
		if len(messages) == 0 {
			return nil
		}

		now := time.Now()
		rows := make([]models.ArchivedMessage, 0, len(messages))
		ids := make([]uint, 0, len(messages))
		for _, m := range messages {
			rows = append(rows, models.ArchivedMessage{
				RoomID:            m.RoomID,
				CharacterID:       m.CharacterID,
				UserID:            m.UserID,
				Content:           m.Content,
				MessageType:       m.MessageType,
				OriginalCreatedAt: m.CreatedAt,
				ArchiveDate:       models.ArchiveDateOf(m.CreatedAt),
				ArchivedAt:        now,
			})
			ids = append(ids, m.ID)
		}

		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		archived = len(rows)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint64("room_id", roomID).Msg("archive failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive room"})
		return
	}

	metrics.ArchivedMessagesTotal.Add(float64(archived))

	c.JSON(http.StatusOK, gin.H{
		"message":  "Room archived successfully",
		"archived": archived,
	})
}

// ClearRoom godoc
// @Summary Delete a room's live messages without archiving
// @Description Destructive: live messages not previously archived are lost. The admin UI archives first by convention.
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "Clear result"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/admin/rooms/{id}/clear [delete]
func ClearRoom(c *gin.Context) {
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

	result := database.DB.Where("room_id = ?", room.ID).Delete(&models.ChatMessage{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear room"})
		return
	}

	log.Info().Uint("room_id", room.ID).Int64("deleted", result.RowsAffected).Msg("room cleared")

	c.JSON(http.StatusOK, gin.H{
		"message": "Room cleared",
		"deleted": result.RowsAffected,
	})
}

// GetArchiveDates godoc
// @Summary List archive dates for a room
// @Description Returns the distinct archive date buckets with message counts, oldest first
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "Date buckets"
// @Router /api/admin/rooms/{id}/archive-dates [get]
func GetArchiveDates(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var dates []ArchiveDateCount
	if err := database.DB.Model(&models.ArchivedMessage{}).
		Select("archive_date AS date, COUNT(*) AS count").
		Where("room_id = ?", roomID).
		Group("archive_date").
		Order("archive_date ASC").
		Scan(&dates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch archive dates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// GetArchivedMessages godoc
// @Summary Browse one archive date bucket
// @Description Returns archived messages for a room and date, 50 per page, ascending by original creation time
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param date path string true "Archive date (YYYY-MM-DD)"
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} map[string]interface{} "Archived messages"
// @Router /api/admin/rooms/{id}/archived/{date} [get]
func GetArchivedMessages(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid archive date"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var total int64
	database.DB.Model(&models.ArchivedMessage{}).
		Where("room_id = ? AND archive_date = ?", roomID, date).
		Count(&total)

	var messages []models.ArchivedMessage
	if err := database.DB.Where("room_id = ? AND archive_date = ?", roomID, date).
		Order("original_created_at ASC").
		Offset((page - 1) * archivePageSize).
		Limit(archivePageSize).
		Preload("Character").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch archived messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"page":     page,
		"total":    total,
	})
}

// ExportRoom godoc
// @Summary Export a room transcript
// @Description Downloads the live feed or one archived date as a plain-text transcript or JSON, oldest message first
// @Tags archive
// @Produce plain
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param format query string false "text (default) or json"
// @Param date query string false "Export an archived date instead of the live feed"
// @Success 200 {string} string "Transcript"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/chat/rooms/{id}/export [get]
func ExportRoom(c *gin.Context) {
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

	date := c.Query("date")
	// Non-nil so an empty room exports as [] rather than null.
	entries := []TranscriptEntry{}
	if date == "" {
		var messages []models.ChatMessage
		if err := database.DB.Where("room_id = ?", room.ID).
			Order("created_at ASC").
			Preload("Character").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		for _, m := range messages {
			entries = append(entries, TranscriptEntry{
				Name:      displayName(m.Character),
				CreatedAt: m.CreatedAt,
				Content:   m.Content,
			})
		}
	} else {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid archive date"})
			return
		}
		var messages []models.ArchivedMessage
		if err := database.DB.Where("room_id = ? AND archive_date = ?", room.ID, date).
			Order("original_created_at ASC").
			Preload("Character").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch archived messages"})
			return
		}
		for _, m := range messages {
			entries = append(entries, TranscriptEntry{
				Name:      displayName(m.Character),
				CreatedAt: m.OriginalCreatedAt,
				Content:   m.Content,
			})
		}
	}

	filename := fmt.Sprintf("%s-%s", exportSlug(room.Name), time.Now().Format("2006-01-02"))

	if c.DefaultQuery("format", "text") == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serialize transcript"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		c.Data(http.StatusOK, "application/json", data)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(RenderTranscript(room.Name, entries)))
}

// RenderTranscript produces the plain-text export: one line per message,
// oldest first, with the character's full name and timestamp preserved.
func RenderTranscript(roomName string, entries []TranscriptEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", roomName, strings.Repeat("=", len([]rune(roomName))))
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s] %s: %s\n", e.CreatedAt.UTC().Format("2006-01-02 15:04:05"), e.Name, e.Content)
	}
	return b.String()
}

func displayName(character *models.Character) string {
	if character == nil {
		return narratorName
	}
	return character.FullName()
}

// exportSlug makes a room name safe for a filename.
func exportSlug(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "room"
	}
	return strings.ToLower(slug)
}
