package handlers

import (
	"github.com/Padrim222/Crystal.v2-sub000/pkg/imgur"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"go.uber.org/zap"
)

// 包级依赖，main 启动时注入
var (
	dispatcher    *webhook.Dispatcher
	imgurClient   *imgur.Client
	logger        = zap.NewNop()
	webhookSecret string
)

// Init 注入处理器依赖
func Init(d *webhook.Dispatcher, img *imgur.Client, log *zap.Logger, secret string) {
	dispatcher = d
	imgurClient = img
	if log != nil {
		logger = log
	}
	webhookSecret = secret
}
