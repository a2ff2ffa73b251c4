package handlers

import (
	"net/http"
	"strings"

	"github.com/Padrim222/Crystal.v2-sub000/pkg/ai"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImgurUploadRequest 图片上传请求
type ImgurUploadRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required"`
	Title       string `json:"title"`
}

// ImgurUpload 把 base64 图片代理上传到图床
func ImgurUpload(c *gin.Context) {
	var req ImgurUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := imgurClient.Upload(req.ImageBase64, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"url":        result.URL,
		"deleteHash": result.DeleteHash,
		"id":         result.ID,
	})
}

// CrystalChatRequest 独立聊天函数请求，history 由调用方自带
type CrystalChatRequest struct {
	Message     string        `json:"message" binding:"required"`
	History     []ai.ChatTurn `json:"history"`
	ContextInfo string        `json:"contextInfo"`
	CrushName   string        `json:"crushName"`
	ImageBase64 string        `json:"imageBase64"`
}

// CrystalChat 单次补全，无流式、无服务端记忆
func CrystalChat(c *gin.Context) {
	var req CrystalChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	persona := ai.BuildPersonaPrompt(nil, req.CrushName, req.ContextInfo)
	response, err := ai.Reply(req.Message, persona, req.History, req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": response,
	})
}

// WebhookEventRequest 通用事件转发请求
type WebhookEventRequest struct {
	EventType string         `json:"event_type" binding:"required"`
	Data      map[string]any `json:"data"`
}

// categoryFor 根据事件名前缀推断类别
func categoryFor(eventType string) webhook.Category {
	switch {
	case strings.HasPrefix(eventType, "crush_"):
		return webhook.CategoryCrush
	case strings.HasPrefix(eventType, "conversation_"), strings.HasPrefix(eventType, "message_"):
		return webhook.CategoryConversation
	case strings.HasPrefix(eventType, "dashboard_"):
		return webhook.CategoryDashboard
	case strings.HasPrefix(eventType, "payment_"), strings.HasPrefix(eventType, "subscription_"):
		return webhook.CategoryPayment
	default:
		return webhook.CategoryAnalytics
	}
}

// N8NWebhookHandler 把事件转发到其类别配置的 webhook 地址
func N8NWebhookHandler(c *gin.Context) {
	var req WebhookEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	url := dispatcher.URLFor(categoryFor(req.EventType))
	if url == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "delivered": 0})
		return
	}

	result := dispatcher.Send(url, req.EventType, req.Data)
	delivered := 0
	if result.Success {
		delivered = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"delivered": delivered,
		"results":   []webhook.Result{result},
	})
}

// N8NCustomWebhookRequest 自定义目标的扇出请求
type N8NCustomWebhookRequest struct {
	EventType   string         `json:"event_type" binding:"required"`
	Data        map[string]any `json:"data"`
	WebhookURLs []string       `json:"webhook_urls" binding:"required,min=1"`
}

// N8NCustomWebhook 向调用方给定的一组地址扇出事件，逐个统计成败。
// 单个目标失败不影响整体返回。
func N8NCustomWebhook(c *gin.Context) {
	var req N8NCustomWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	results := dispatcher.FanOut(req.WebhookURLs, req.EventType, req.Data)
	delivered := 0
	for _, r := range results {
		if r.Success {
			delivered++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"delivered": delivered,
		"failed":    len(results) - delivered,
		"results":   results,
	})
}

// N8NChatIntegration 会话类事件专用转发
func N8NChatIntegration(c *gin.Context) {
	var req WebhookEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	url := dispatcher.URLFor(webhook.CategoryConversation)
	if url == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "delivered": 0})
		return
	}

	result := dispatcher.Send(url, req.EventType, req.Data)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": []webhook.Result{result},
	})
}

// 按事件类型附加的推荐文案
var analyticsRecommendations = map[string]string{
	"crush_created":        "Novo contato adicionado! Comece com uma conversa leve nas próximas 24 horas.",
	"crush_stage_changed":  "Avanço no pipeline! Mantenha o ritmo sem pressionar.",
	"conversation_started": "Conversa iniciada. Perguntas abertas rendem mais do que elogios genéricos.",
	"message_sent":         "Mensagem enviada. Dê espaço para a resposta antes de emendar outra.",
}

const defaultRecommendation = "Continue acompanhando seus contatos pelo painel."

// CrystalAnalytics 给事件附加推荐文案后转发到分析 webhook
func CrystalAnalytics(c *gin.Context) {
	var req WebhookEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	recommendation, ok := analyticsRecommendations[req.EventType]
	if !ok {
		recommendation = defaultRecommendation
	}

	annotated := gin.H{
		"id":             uuid.New().String(),
		"event":          req.EventType,
		"data":           req.Data,
		"recommendation": recommendation,
	}

	url := dispatcher.URLFor(webhook.CategoryAnalytics)
	if url == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "delivered": 0, "recommendation": recommendation})
		return
	}

	result := dispatcher.Send(url, req.EventType, annotated)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"recommendation": recommendation,
		"results":        []webhook.Result{result},
	})
}
