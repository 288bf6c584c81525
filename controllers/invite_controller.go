package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bradavice/roleplay_backend/database"
	"github.com/bradavice/roleplay_backend/models"
)

// GetInviteCodes godoc
// @Summary List invite codes
// @Description Returns issued invite codes with their redemption state
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of invite codes"
// @Router /api/admin/invites [get]
func GetInviteCodes(c *gin.Context) {
	var invites []models.InviteCode
	if err := database.DB.Preload("Creator").Order("created_at DESC").Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invite codes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// CreateInviteCodes godoc
// @Summary Issue invite codes
// @Description Generates the requested number of single-use invite codes (default 1, max 50)
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param count query int false "Number of codes to generate"
// @Success 201 {object} map[string]interface{} "Generated codes"
// @Router /api/admin/invites [post]
func CreateInviteCodes(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil || count < 1 {
		count = 1
	}
	if count > 50 {
		count = 50
	}

	invites := make([]models.InviteCode, 0, count)
	for i := 0; i < count; i++ {
		invites = append(invites, models.InviteCode{
			Code:      uuid.NewString(),
			CreatedBy: userID,
		})
	}

	if err := database.DB.Create(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite codes"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invite codes created successfully",
		"invites": invites,
	})
}
