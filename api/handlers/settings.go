package handlers

import (
	"net/http"

	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSettings 获取个性化设置，没有则返回默认值
func GetSettings(c *gin.Context) {
	userID, _ := c.Get("userID")

	var settings models.UserSettings
	err := database.DB.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			settings = models.UserSettings{
				UserID:        userID.(uint),
				FlirtLevel:    50,
				RomanceLevel:  50,
				BoldnessLevel: 50,
				HumorLevel:    50,
				UseEmojis:     true,
				UseSlang:      true,
			}
			c.JSON(http.StatusOK, gin.H{"settings": settings})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings 个性化设置 upsert
func UpdateSettings(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := models.UserSettings{
		UserID:            userID.(uint),
		FlirtLevel:        req.FlirtLevel,
		RomanceLevel:      req.RomanceLevel,
		BoldnessLevel:     req.BoldnessLevel,
		HumorLevel:        req.HumorLevel,
		UseEmojis:         req.UseEmojis,
		UseSlang:          req.UseSlang,
		ProactiveMessages: req.ProactiveMessages,
		ShortReplies:      req.ShortReplies,
		CustomPrompt:      req.CustomPrompt,
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"flirt_level", "romance_level", "boldness_level", "humor_level",
			"use_emojis", "use_slang", "proactive_messages", "short_replies",
			"custom_prompt", "updated_at",
		}),
	}).Create(&settings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
