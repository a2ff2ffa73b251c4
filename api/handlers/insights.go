package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/ai"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GenerateInsightsRequest 洞察生成请求
type GenerateInsightsRequest struct {
	ConversationIDs []uint `json:"conversations" binding:"required,min=1"`
}

// GenerateInsights 把会话历史批量送给 LLM 生成洞察并持久化。
// JSON 解析失败整个调用失败，不保留部分结果。
func GenerateInsights(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req GenerateInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// 只取属于当前用户的会话
	var conversations []models.Conversation
	if err := database.DB.Where("id IN ? AND user_id = ?", req.ConversationIDs, userID).
		Find(&conversations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch conversations"})
		return
	}
	if len(conversations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No conversations found"})
		return
	}

	var transcript strings.Builder
	for _, conv := range conversations {
		var messages []models.Message
		database.DB.Where("conversation_id = ?", conv.ID).Order("created_at ASC").Find(&messages)

		fmt.Fprintf(&transcript, "--- Conversa %d (%s) ---\n", conv.ID, conv.Type)
		for _, m := range messages {
			fmt.Fprintf(&transcript, "[%s] %s\n", m.Sender, m.Content)
		}
	}

	drafts, err := ai.GenerateInsights(transcript.String())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	insights := make([]models.Insight, 0, len(drafts))
	for _, d := range drafts {
		insights = append(insights, models.Insight{
			UserID:  userID.(uint),
			Type:    d.Type,
			Title:   d.Title,
			Content: d.Content,
			Score:   d.Score,
		})
	}

	// 新一批洞察整体替换旧的
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Insight{}).Error; err != nil {
			return err
		}
		return tx.Create(&insights).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "insights": insights})
}

// GetInsights 获取已保存的洞察
func GetInsights(c *gin.Context) {
	userID, _ := c.Get("userID")

	var insights []models.Insight
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&insights).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
