package handlers

import (
	"net/http"

	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/pipeline"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
)

// GetDashboard 仪表盘汇总：看板统计 + 会话数量 + 最近互动
func GetDashboard(c *gin.Context) {
	userID, _ := c.Get("userID")

	crushes, err := loadCrushes(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crushes"})
		return
	}

	var conversationCount int64
	database.DB.Model(&models.Conversation{}).Where("user_id = ?", userID).Count(&conversationCount)

	var messageCount int64
	database.DB.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID).
		Count(&messageCount)

	var recent []models.Crush
	database.DB.Where("user_id = ?", userID).
		Order("last_interaction DESC").
		Limit(5).
		Find(&recent)

	dispatcher.Dispatch(webhook.CategoryDashboard, "dashboard_viewed", gin.H{"userId": userID})

	c.JSON(http.StatusOK, gin.H{
		"stats":         pipeline.ComputeStats(crushes),
		"conversations": conversationCount,
		"messages":      messageCount,
		"recentCrushes": recent,
	})
}
