package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Padrim222/Crystal.v2-sub000/configs"
	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/ai"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/imgur"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupTest 为每个测试准备一个内存数据库和带假登录的路由
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	Init(webhook.NewDispatcher(configs.Webhooks{}, zap.NewNop()), imgur.NewClient("", ""), zap.NewNop(), "")
	ai.InitConfig(configs.AI{})

	router := gin.New()

	// 测试里绕过JWT，直接注入用户1
	profile := models.Profile{Email: "eu@example.com", Name: "Eu"}
	profile.ID = 1
	require.NoError(t, db.Create(&profile).Error)
	authed := func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("profile", profile)
		c.Next()
	}

	api := router.Group("/api", authed)
	{
		api.GET("/crushes", GetCrushes)
		api.GET("/crushes/board", GetBoard)
		api.POST("/crushes", CreateCrush)
		api.PUT("/crushes/:id", UpdateCrush)
		api.DELETE("/crushes/:id", DeleteCrush)
		api.POST("/crushes/:id/move", MoveCrush)

		api.GET("/conversations", GetConversations)
		api.POST("/conversations", StartConversation)
		api.GET("/conversations/:id/messages", GetConversationMessages)
		api.POST("/conversations/:id/messages", SendMessage)
		api.POST("/conversations/:id/end", EndConversation)

		api.GET("/subscription", GetSubscription)
		api.GET("/purchases", GetPurchases)
		api.GET("/insights", GetInsights)
		api.GET("/settings", GetSettings)
		api.PUT("/settings", UpdateSettings)
		api.GET("/dashboard", GetDashboard)
	}
	router.POST("/functions/payment-webhook", PaymentWebhook)
	router.POST("/functions/generate-insights", authed, GenerateInsights)
	router.POST("/functions/n8n-webhook-handler", N8NWebhookHandler)
	router.POST("/functions/n8n-custom-webhook", N8NCustomWebhook)
	router.POST("/functions/crystal-analytics", CrystalAnalytics)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) map[string]any {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
	return decodeBody(t, w)
}
