package main

import (
	"log"

	"github.com/Padrim222/Crystal.v2-sub000/api"
	"github.com/Padrim222/Crystal.v2-sub000/api/handlers"
	"github.com/Padrim222/Crystal.v2-sub000/configs"
	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/ai"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/imgur"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/utils"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 先于 viper 加载，便于本地开发
	_ = godotenv.Load()

	// 加载配置
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// 初始化JWT和AI
	utils.InitJWT(cfg)
	ai.InitConfig(cfg.AI)

	// 初始化数据库连接
	if err := database.Initialize(cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	// 注入处理器依赖
	dispatcher := webhook.NewDispatcher(cfg.Webhooks, logger)
	imgurClient := imgur.NewClient(cfg.Imgur.ClientID, cfg.Imgur.APIURL)
	handlers.Init(dispatcher, imgurClient, logger, cfg.Webhooks.Secret)

	// 创建Gin实例
	router := gin.Default()

	// 设置路由
	api.SetupRouter(router)

	// 启动服务器
	logger.Info("Server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
