package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/models"
	"github.com/bradavice/roleplay_backend/utils"
)

type CreateCharacterInput struct {
	FirstName   string    `json:"first_name" binding:"required"`
	LastName    string    `json:"last_name" binding:"required"`
	BirthDate   time.Time `json:"birth_date" binding:"required"`
	Avatar      string    `json:"avatar"`
	School      string    `json:"school"`
	Description string    `json:"description"`
	History     string    `json:"history"`
}

type UpdateCharacterInput struct {
	Avatar      *string `json:"avatar"`
	School      *string `json:"school"`
	Description *string `json:"description"`
	History     *string `json:"history"`
}

// GetUsers godoc
// @Summary List users
// @Description Returns the user directory with characters
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of users"
// @Router /api/users [get]
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Preload("Characters").Order("username ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser godoc
// @Summary Get one user
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{} "User"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/users/{id} [get]
func GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.Preload("Characters").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetMyCharacters godoc
// @Summary List the authenticated user's characters
// @Tags characters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of characters"
// @Router /api/characters [get]
func GetMyCharacters(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var characters []models.Character
	if err := database.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&characters).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch characters"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

// GetCharacter godoc
// @Summary Get character detail with inventory and journal
// @Tags characters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Character ID"
// @Success 200 {object} map[string]interface{} "Character detail"
// @Failure 404 {object} map[string]string "Character not found"
// @Router /api/characters/{id} [get]
func GetCharacter(c *gin.Context) {
	characterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid character ID"})
		return
	}

	var character models.Character
	if err := database.DB.Preload("Inventory").Preload("Journal").Preload("User").First(&character, characterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"character": character,
		"age":       utils.CharacterAge(character.BirthDate, time.Now()),
	})
}

// CreateCharacter godoc
// @Summary Create a character
// @Description Creates a character for the authenticated user; the first character becomes the active one
// @Tags characters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param character body CreateCharacterInput true "Character"
// @Success 201 {object} map[string]interface{} "Character created"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /api/characters [post]
func CreateCharacter(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreateCharacterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	database.DB.Model(&models.Character{}).Where("user_id = ?", userID).Count(&count)

	character := models.Character{
		UserID:      userID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		BirthDate:   input.BirthDate,
		IsActive:    count == 0,
		Avatar:      input.Avatar,
		School:      input.School,
		Description: input.Description,
		History:     input.History,
	}

	if err := database.DB.Create(&character).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create character"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Character created successfully",
		"character": character,
	})
}

// UpdateCharacter godoc
// @Summary Update a character's profile
// @Description Owner-only update of the free-form profile fields
// @Tags characters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Character ID"
// @Param character body UpdateCharacterInput true "Profile fields"
// @Success 200 {object} map[string]interface{} "Character updated"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Character not found"
// @Router /api/characters/{id} [put]
func UpdateCharacter(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	characterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid character ID"})
		return
	}

	var character models.Character
	if err := database.DB.First(&character, characterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		return
	}
	if character.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own characters"})
		return
	}

	var input UpdateCharacterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Avatar != nil {
		character.Avatar = *input.Avatar
	}
	if input.School != nil {
		character.School = *input.School
	}
	if input.Description != nil {
		character.Description = *input.Description
	}
	if input.History != nil {
		character.History = *input.History
	}

	if err := database.DB.Save(&character).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update character"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Character updated successfully",
		"character": character,
	})
}

// ActivateCharacter godoc
// @Summary Switch the active (main) character
// @Description Makes the character the user's default speaking identity; exactly one character is active at a time
// @Tags characters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Character ID"
// @Success 200 {object} map[string]string "Active character switched"
// @Failure 400 {object} map[string]string "Character is dead"
// @Failure 403 {object} map[string]string "Not the owner"
// @Router /api/characters/{id}/activate [post]
func ActivateCharacter(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	characterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid character ID"})
		return
	}

	var character models.Character
	if err := database.DB.First(&character, characterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
		return
	}
	if character.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only activate your own characters"})
		return
	}
	if !character.Alive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A dead character cannot be activated"})
		return
	}

	// Clear siblings and set the new active flag in one transaction so the
	// one-active-character invariant holds even under concurrent switches.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Character{}).Where("user_id = ?", userID).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Character{}).Where("id = ?", character.ID).Update("is_active", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch active character"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Active character switched"})
}
