package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/ai"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 发给 LLM 的历史窗口大小
const historyWindow = 10

// StartConversation 开始会话，可选关联一个追求对象
func StartConversation(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req models.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	convType := req.Type
	if convType == "" {
		convType = models.ConversationCrystalChat
	}

	if req.CrushID != nil {
		var crush models.Crush
		if err := database.DB.Where("id = ? AND user_id = ?", *req.CrushID, userID).First(&crush).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Crush not found"})
			return
		}
	}

	conversation := models.Conversation{
		UserID:    userID.(uint),
		CrushID:   req.CrushID,
		Type:      convType,
		StartedAt: time.Now(),
	}

	if err := database.DB.Create(&conversation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start conversation"})
		return
	}

	dispatcher.Dispatch(webhook.CategoryConversation, "conversation_started", conversation)

	c.JSON(http.StatusCreated, gin.H{
		"conversation": conversation,
	})
}

// GetConversations 获取所有会话
func GetConversations(c *gin.Context) {
	userID, _ := c.Get("userID")

	var conversations []models.Conversation
	if err := database.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conversations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
	})
}

func findOwnedConversation(c *gin.Context) (*models.Conversation, bool) {
	userID, _ := c.Get("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return nil, false
	}

	var conversation models.Conversation
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&conversation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found or unauthorized"})
		return nil, false
	}
	return &conversation, true
}

// GetConversationMessages 获取会话消息，按时间升序
func GetConversationMessages(c *gin.Context) {
	conversation, ok := findOwnedConversation(c)
	if !ok {
		return
	}

	var messages []models.Message
	if err := database.DB.Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}

// SendMessage 发送用户消息并生成 Crystal 回复。
// 上游 LLM 失败时写入固定兜底回复，对话永远不会缺少回应。
func SendMessage(c *gin.Context) {
	userID, _ := c.Get("userID")
	conversation, ok := findOwnedConversation(c)
	if !ok {
		return
	}
	if conversation.Ended() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Conversation has ended"})
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userMessage := models.Message{
		ConversationID: conversation.ID,
		Content:        req.Content,
		Sender:         models.SenderUser,
	}

	// 附带图片时先托管到图床，失败不阻塞发送
	if req.ImageBase64 != "" && imgurClient != nil {
		if uploaded, err := imgurClient.Upload(req.ImageBase64, "chat attachment"); err != nil {
			logger.Warn("image upload failed", zap.Error(err))
		} else {
			userMessage.ImageURL = uploaded.URL
		}
	}

	if err := database.DB.Create(&userMessage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// 更新会话活动时间，失败不阻塞回复
	if err := database.DB.Model(conversation).Update("updated_at", time.Now()).Error; err != nil {
		logger.Warn("failed to touch conversation", zap.Error(err))
	}

	// 取最近的历史并映射为带角色的轮次
	var recent []models.Message
	if err := database.DB.Where("conversation_id = ? AND id < ?", conversation.ID, userMessage.ID).
		Order("created_at DESC").
		Limit(historyWindow).
		Find(&recent).Error; err != nil {
		logger.Warn("failed to load chat history", zap.Error(err))
	}

	history := make([]ai.ChatTurn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		role := "user"
		if recent[i].Sender == models.SenderCrystal {
			role = "assistant"
		}
		history = append(history, ai.ChatTurn{Role: role, Content: recent[i].Content})
	}

	// 个性化设置和关联的 crush 共同构成 persona
	var settings *models.UserSettings
	var loaded models.UserSettings
	if err := database.DB.Where("user_id = ?", userID).First(&loaded).Error; err == nil {
		settings = &loaded
	}
	crushName := ""
	if conversation.CrushID != nil {
		var crush models.Crush
		if err := database.DB.First(&crush, *conversation.CrushID).Error; err == nil {
			crushName = crush.Name
		}
	}

	persona := ai.BuildPersonaPrompt(settings, crushName, "")
	reply, err := ai.Reply(req.Content, persona, history, req.ImageBase64)
	degraded := false
	if err != nil {
		logger.Warn("crystal reply failed, using fallback",
			zap.Uint("conversation", conversation.ID),
			zap.Error(err))
		reply = ai.FallbackReply
		degraded = true
	}

	crystalMessage := models.Message{
		ConversationID: conversation.ID,
		Content:        reply,
		Sender:         models.SenderCrystal,
	}
	if err := database.DB.Create(&crystalMessage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reply"})
		return
	}

	dispatcher.Dispatch(webhook.CategoryConversation, "message_sent", gin.H{
		"conversationId": conversation.ID,
		"sender":         models.SenderUser,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  userMessage,
		"reply":    crystalMessage,
		"degraded": degraded,
	})
}

// EndConversation 结束会话（终态）
func EndConversation(c *gin.Context) {
	conversation, ok := findOwnedConversation(c)
	if !ok {
		return
	}
	if conversation.Ended() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Conversation already ended"})
		return
	}

	now := time.Now()
	conversation.EndedAt = &now
	if err := database.DB.Save(conversation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end conversation"})
		return
	}

	dispatcher.Dispatch(webhook.CategoryConversation, "conversation_ended", gin.H{
		"conversationId": conversation.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"conversation": conversation,
	})
}
