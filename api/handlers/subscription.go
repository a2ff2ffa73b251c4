package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSubscription 获取订阅行和计算出的访问判定
func GetSubscription(c *gin.Context) {
	userID, _ := c.Get("userID")

	now := time.Now()
	var subscription models.Subscription
	err := database.DB.Where("user_id = ?", userID).First(&subscription).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 没有订阅行等价于无任何付费权限
			c.JSON(http.StatusOK, models.SubscriptionResponse{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscription"})
		return
	}

	c.JSON(http.StatusOK, models.SubscriptionResponse{
		Subscription:          &subscription,
		HasActiveSubscription: subscription.IsActive(now),
		HasPremiumAccess:      subscription.HasPremiumAccess(now),
	})
}

// PaymentWebhook 支付网关回调：按 user_id upsert 订阅行。
// 未知事件类型记日志后按成功返回，不影响网关重试逻辑。
func PaymentWebhook(c *gin.Context) {
	if webhookSecret != "" && c.GetHeader("X-Webhook-Secret") != webhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid webhook secret"})
		return
	}

	var req models.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var status models.SubscriptionStatus
	switch req.EventType {
	case models.EventPaymentCompleted, models.EventSubscriptionActivated, models.EventSubscriptionRenewed:
		status = models.StatusActive
	case models.EventPaymentFailed:
		status = models.StatusInactive
	case models.EventSubscriptionCancelled:
		status = models.StatusCancelled
	default:
		logger.Info("ignoring unknown payment event", zap.String("event", req.EventType))
		c.JSON(http.StatusOK, gin.H{"success": true, "ignored": true})
		return
	}

	plan := req.PlanType
	if plan == "" {
		plan = models.PlanPremium
	}

	var paymentData datatypes.JSON
	if req.PaymentData != nil {
		raw, err := json.Marshal(req.PaymentData)
		if err == nil {
			paymentData = raw
		}
	}

	now := time.Now()
	subscription := models.Subscription{
		UserID:      req.UserID,
		PlanType:    plan,
		Status:      status,
		StartedAt:   &now,
		ExpiresAt:   req.ExpiresAt,
		ExternalID:  req.TransactionID,
		PaymentData: paymentData,
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_type", "status", "started_at", "expires_at", "external_id", "payment_data", "updated_at",
		}),
	}).Create(&subscription).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update subscription"})
		return
	}

	// 支付结果事件同时记一条流水
	if req.EventType == models.EventPaymentCompleted || req.EventType == models.EventPaymentFailed {
		purchaseStatus := models.PurchaseCompleted
		if req.EventType == models.EventPaymentFailed {
			purchaseStatus = models.PurchaseFailed
		}
		purchase := models.Purchase{
			UserID:        req.UserID,
			OrderNo:       "P" + now.Format("20060102") + uuid.New().String()[:8],
			PlanType:      plan,
			Status:        purchaseStatus,
			TransactionID: req.TransactionID,
		}
		if err := database.DB.Create(&purchase).Error; err != nil {
			logger.Warn("failed to record purchase", zap.Error(err))
		}
	}

	dispatcher.Dispatch(webhook.CategoryPayment, req.EventType, gin.H{
		"userId":   req.UserID,
		"planType": plan,
		"status":   status,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPurchases 获取支付历史
func GetPurchases(c *gin.Context) {
	userID, _ := c.Get("userID")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	var purchases []models.Purchase
	var count int64

	database.DB.Model(&models.Purchase{}).Where("user_id = ?", userID).Count(&count)
	database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&purchases)

	c.JSON(http.StatusOK, gin.H{
		"total":     count,
		"page":      page,
		"pageSize":  pageSize,
		"purchases": purchases,
	})
}
