package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/models"
)

// setupTestDB swaps the global handle for an in-memory sqlite database so
// store-touching handlers can be exercised without postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Character{},
		&models.ChatCategory{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.ArchivedMessage{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedRoom(t *testing.T, db *gorm.DB) (models.ChatRoom, models.Character) {
	t.Helper()

	user := models.User{Username: "hermiona", Email: "hermiona@example.com", Password: "heslo123"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	character := models.Character{
		UserID:    user.ID,
		FirstName: "Hermiona",
		LastName:  "Grangerová",
		BirthDate: time.Date(1979, 9, 19, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	if err := db.Create(&character).Error; err != nil {
		t.Fatalf("create character: %v", err)
	}
	category := models.ChatCategory{Name: "Hrad"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	room := models.ChatRoom{Name: "Velká síň", CategoryID: category.ID}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room, character
}

func seedMessages(t *testing.T, db *gorm.DB, room models.ChatRoom, character models.Character, times []time.Time) {
	t.Helper()
	for i, ts := range times {
		msg := models.ChatMessage{
			RoomID:      room.ID,
			CharacterID: &character.ID,
			UserID:      character.UserID,
			Content:     fmt.Sprintf("zpráva %d", i+1),
			MessageType: models.MessageTypeText,
			CreatedAt:   ts,
		}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("create message %d: %v", i+1, err)
		}
	}
}

func archiveRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat/rooms/:id/archive", ArchiveRoom)
	router.GET("/api/chat/rooms/:id/export", ExportRoom)
	router.GET("/api/admin/rooms/:id/archive-dates", GetArchiveDates)
	return router
}

func TestArchiveRoom_MovesAllMessages(t *testing.T) {
	db := setupTestDB(t)
	room, character := seedRoom(t, db)

	times := []time.Time{
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 10, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
	}
	seedMessages(t, db, room, character, times)

	router := archiveRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/chat/rooms/%d/archive", room.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("archive status = %d, body %s", w.Code, w.Body.String())
	}

	var live int64
	db.Model(&models.ChatMessage{}).Where("room_id = ?", room.ID).Count(&live)
	if live != 0 {
		t.Errorf("live messages after archive = %d, want 0", live)
	}

	var archived []models.ArchivedMessage
	if err := db.Where("room_id = ?", room.ID).Order("original_created_at ASC").Find(&archived).Error; err != nil {
		t.Fatalf("load archived: %v", err)
	}
	if len(archived) != len(times) {
		t.Fatalf("archived %d messages, want %d", len(archived), len(times))
	}
	for i, m := range archived {
		if want := fmt.Sprintf("zpráva %d", i+1); m.Content != want {
			t.Errorf("archived[%d].Content = %q, want %q", i, m.Content, want)
		}
		if !m.OriginalCreatedAt.Equal(times[i]) {
			t.Errorf("archived[%d].OriginalCreatedAt = %v, want %v", i, m.OriginalCreatedAt, times[i])
		}
		if m.ArchiveDate != models.ArchiveDateOf(times[i]) {
			t.Errorf("archived[%d].ArchiveDate = %q, want %q", i, m.ArchiveDate, models.ArchiveDateOf(times[i]))
		}
	}

	// Messages from two calendar days land in two buckets.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/admin/rooms/%d/archive-dates", room.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("archive-dates status = %d", w.Code)
	}
	var resp struct {
		Dates []ArchiveDateCount `json:"dates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode archive-dates: %v", err)
	}
	want := []ArchiveDateCount{
		{Date: "2024-05-01", Count: 3},
		{Date: "2024-05-02", Count: 2},
	}
	if len(resp.Dates) != len(want) {
		t.Fatalf("archive dates = %v, want %v", resp.Dates, want)
	}
	for i := range want {
		if resp.Dates[i] != want[i] {
			t.Errorf("archive date[%d] = %v, want %v", i, resp.Dates[i], want[i])
		}
	}
}

func TestArchiveRoom_AllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	room, character := seedRoom(t, db)

	times := []time.Time{
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 10, 0, 0, time.UTC),
	}
	seedMessages(t, db, room, character, times)

	// Make the copy step fail mid-transaction; the delete must roll back
	// with it and the live feed must stay intact.
	if err := db.Migrator().DropTable(&models.ArchivedMessage{}); err != nil {
		t.Fatalf("drop archive table: %v", err)
	}

	router := archiveRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/chat/rooms/%d/archive", room.ID), nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("archive status = %d, want 500", w.Code)
	}

	var live int64
	db.Model(&models.ChatMessage{}).Where("room_id = ?", room.ID).Count(&live)
	if live != int64(len(times)) {
		t.Errorf("live messages after failed archive = %d, want %d", live, len(times))
	}
}

func TestExportRoom_EmptyRoomJSON(t *testing.T) {
	db := setupTestDB(t)
	room, _ := seedRoom(t, db)

	router := archiveRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/chat/rooms/%d/export?format=json", room.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}

	var entries []TranscriptEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if entries == nil {
		t.Errorf("empty room exported as %s, want []", w.Body.String())
	}
	if len(entries) != 0 {
		t.Errorf("empty room exported %d entries", len(entries))
	}
}

func TestExportRoom_JSONEntries(t *testing.T) {
	db := setupTestDB(t)
	room, character := seedRoom(t, db)
	seedMessages(t, db, room, character, []time.Time{
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC),
	})

	router := archiveRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/chat/rooms/%d/export?format=json", room.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}

	var entries []TranscriptEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("exported %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Hermiona Grangerová" || entries[0].Content != "zpráva 1" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if !entries[0].CreatedAt.Before(entries[1].CreatedAt) {
		t.Error("export entries not in ascending order")
	}
}
