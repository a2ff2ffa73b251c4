package api

import (
	"github.com/Padrim222/Crystal.v2-sub000/api/handlers"
	"github.com/Padrim222/Crystal.v2-sub000/api/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置API路由
func SetupRouter(router *gin.Engine) {
	// 所有端点对浏览器客户端开放 CORS
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Webhook-Secret"},
	}))

	// 公共API
	public := router.Group("/api")
	{
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/register", handlers.Register)
	}

	// 函数端点（原 edge functions），均为 POST + JSON
	functions := router.Group("/functions")
	{
		functions.POST("/payment-webhook", handlers.PaymentWebhook)
		functions.POST("/n8n-webhook-handler", handlers.N8NWebhookHandler)
		functions.POST("/n8n-custom-webhook", handlers.N8NCustomWebhook)
		functions.POST("/n8n-chat-integration", handlers.N8NChatIntegration)
		functions.POST("/crystal-analytics", handlers.CrystalAnalytics)

		// 需要登录的函数
		authed := functions.Group("")
		authed.Use(middleware.Auth())
		{
			authed.POST("/imgur-upload", handlers.ImgurUpload)
			authed.POST("/crystal-chat", handlers.CrystalChat)
			authed.POST("/generate-insights", handlers.GenerateInsights)
		}
	}

	// 需要认证的API
	authorized := router.Group("/api")
	authorized.Use(middleware.Auth())
	{
		// 用户相关
		authorized.GET("/user", handlers.GetCurrentUser)
		authorized.PUT("/user/profile", handlers.UpdateUserProfile)
		authorized.POST("/auth/logout", handlers.Logout)

		// 追求对象看板
		authorized.GET("/crushes", handlers.GetCrushes)
		authorized.GET("/crushes/board", handlers.GetBoard)
		authorized.POST("/crushes", handlers.CreateCrush)
		authorized.PUT("/crushes/:id", handlers.UpdateCrush)
		authorized.DELETE("/crushes/:id", handlers.DeleteCrush)
		authorized.POST("/crushes/:id/move", handlers.MoveCrush)

		// 聊天相关
		authorized.GET("/conversations", handlers.GetConversations)
		authorized.POST("/conversations", handlers.StartConversation)
		authorized.GET("/conversations/:id/messages", handlers.GetConversationMessages)
		authorized.POST("/conversations/:id/messages", handlers.SendMessage)
		authorized.POST("/conversations/:id/end", handlers.EndConversation)

		// 订阅与个性化
		authorized.GET("/subscription", handlers.GetSubscription)
		authorized.GET("/purchases", handlers.GetPurchases)
		authorized.GET("/settings", handlers.GetSettings)
		authorized.PUT("/settings", handlers.UpdateSettings)

		// 洞察与仪表盘
		authorized.GET("/insights", handlers.GetInsights)
		authorized.GET("/dashboard", handlers.GetDashboard)
	}
}
