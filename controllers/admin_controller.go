package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/models"
)

type NarratorInput struct {
	CanNarrate bool   `json:"can_narrate"`
	Color      string `json:"color"`
}

type SpellInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type WandComponentInput struct {
	Items []models.WandComponentItem `json:"items" binding:"required"`
}

// GetAllUsers godoc
// @Summary List all users for administration
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of users"
// @Router /api/admin/users [get]
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Preload("Characters").Order("id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// BanUser godoc
// @Summary Ban a user
// @Description Users are never deleted, only banned
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User banned"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/admin/users/{id}/ban [post]
func BanUser(c *gin.Context) {
	setBanned(c, true)
}

// UnbanUser godoc
// @Summary Lift a user's ban
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User unbanned"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/admin/users/{id}/unban [post]
func UnbanUser(c *gin.Context) {
	setBanned(c, false)
}

func setBanned(c *gin.Context, banned bool) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Banned = banned
	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	log.Info().Uint("user_id", user.ID).Bool("banned", banned).Msg("ban state changed")

	if banned {
		c.JSON(http.StatusOK, gin.H{"message": "User banned"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "User unbanned"})
	}
}

// SetNarrator godoc
// @Summary Grant or revoke narrator permission
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body NarratorInput true "Narrator settings"
// @Success 200 {object} map[string]string "Narrator settings updated"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/admin/users/{id}/narrator [post]
func SetNarrator(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input NarratorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.CanNarrate = input.CanNarrate
	user.NarratorColor = input.Color
	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Narrator settings updated"})
}

// KillCharacter godoc
// @Summary Mark a character as dead
// @Description Sets the death date; dead characters cannot speak in chat. Characters are never deleted.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Character ID"
// @Success 200 {object} map[string]string "Character killed"
// @Failure 404 {object} map[string]string "Character not found"
// @Router /api/admin/characters/{id}/kill [post]
func KillCharacter(c *gin.Context) {
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

	now := time.Now()
	character.DeathDate = &now
	character.IsActive = false
	if err := database.DB.Save(&character).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update character"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Character killed"})
}

// ReviveCharacter godoc
// @Summary Clear a character's death date
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Character ID"
// @Success 200 {object} map[string]string "Character revived"
// @Failure 404 {object} map[string]string "Character not found"
// @Router /api/admin/characters/{id}/revive [post]
func ReviveCharacter(c *gin.Context) {
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

	character.DeathDate = nil
	if err := database.DB.Save(&character).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update character"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Character revived"})
}

// GetSpells godoc
// @Summary List spells
// @Tags spells
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of spells"
// @Router /api/spells [get]
func GetSpells(c *gin.Context) {
	var spells []models.Spell
	if err := database.DB.Order("name ASC").Find(&spells).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spells"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"spells": spells})
}

// CreateSpell godoc
// @Summary Create a spell
// @Tags spells
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param spell body SpellInput true "Spell"
// @Success 201 {object} map[string]interface{} "Spell created"
// @Router /api/admin/spells [post]
func CreateSpell(c *gin.Context) {
	var input SpellInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spell := models.Spell{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	}

	if err := database.DB.Create(&spell).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create spell"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Spell created successfully",
		"spell":   spell,
	})
}

// UpdateSpell godoc
// @Summary Update a spell
// @Tags spells
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Spell ID"
// @Param spell body SpellInput true "Spell"
// @Success 200 {object} map[string]interface{} "Spell updated"
// @Failure 404 {object} map[string]string "Spell not found"
// @Router /api/admin/spells/{id} [put]
func UpdateSpell(c *gin.Context) {
	spellID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spell ID"})
		return
	}

	var spell models.Spell
	if err := database.DB.First(&spell, spellID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spell not found"})
		return
	}

	var input SpellInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spell.Name = input.Name
	spell.Description = input.Description
	spell.Category = input.Category
	if err := database.DB.Save(&spell).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update spell"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Spell updated successfully",
		"spell":   spell,
	})
}

// DeleteSpell godoc
// @Summary Delete a spell
// @Tags spells
// @Produce json
// @Security BearerAuth
// @Param id path int true "Spell ID"
// @Success 200 {object} map[string]string "Spell deleted"
// @Router /api/admin/spells/{id} [delete]
func DeleteSpell(c *gin.Context) {
	spellID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spell ID"})
		return
	}

	if err := database.DB.Delete(&models.Spell{}, spellID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete spell"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Spell deleted"})
}

// GetWandComponents godoc
// @Summary List wand component catalogs
// @Description Returns the component catalog per kind; legacy rows are normalized to the versioned shape on read
// @Tags wands
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Component catalogs"
// @Router /api/wand-components [get]
func GetWandComponents(c *gin.Context) {
	var components []models.WandComponent
	if err := database.DB.Order("kind ASC").Find(&components).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wand components"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"components": components})
}

// UpdateWandComponent godoc
// @Summary Replace a wand component catalog
// @Tags wands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Component ID"
// @Param body body WandComponentInput true "Items"
// @Success 200 {object} map[string]interface{} "Component updated"
// @Failure 404 {object} map[string]string "Component not found"
// @Router /api/admin/wand-components/{id} [put]
func UpdateWandComponent(c *gin.Context) {
	componentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid component ID"})
		return
	}

	var component models.WandComponent
	if err := database.DB.First(&component, componentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Component not found"})
		return
	}

	var input WandComponentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	component.Items = models.ComponentList{Version: models.ComponentListVersion, Items: input.Items}
	if err := database.DB.Save(&component).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update component"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Component updated successfully",
		"component": component,
	})
}

// NormalizeWandComponents godoc
// @Summary Rewrite legacy wand component rows in the versioned shape
// @Description One-time migration: loading a row normalizes it, saving writes it back versioned
// @Tags wands
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Normalization result"
// @Router /api/admin/wand-components/normalize [post]
func NormalizeWandComponents(c *gin.Context) {
	var components []models.WandComponent
	if err := database.DB.Find(&components).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wand components"})
		return
	}

	for i := range components {
		if err := database.DB.Save(&components[i]).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to normalize components"})
			return
		}
	}

	log.Info().Int("count", len(components)).Msg("wand components normalized")

	c.JSON(http.StatusOK, gin.H{
		"message":    "Components normalized",
		"normalized": len(components),
	})
}
