package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 订阅计划
type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
	PlanVIP     PlanType = "vip"
)

// 订阅状态
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusInactive  SubscriptionStatus = "inactive"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// 支付网关事件类型
const (
	EventPaymentCompleted      = "payment_completed"
	EventSubscriptionActivated = "subscription_activated"
	EventPaymentFailed         = "payment_failed"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventSubscriptionRenewed   = "subscription_renewed"
)

// Subscription 订阅记录，每个用户按约定只有一行（按 user_id upsert）
type Subscription struct {
	gorm.Model
	UserID      uint               `gorm:"not null;uniqueIndex" json:"userId"`
	PlanType    PlanType           `gorm:"size:20;not null;default:'free'" json:"planType"`
	Status      SubscriptionStatus `gorm:"size:20;not null;default:'inactive'" json:"status"`
	StartedAt   *time.Time         `json:"startedAt"`
	ExpiresAt   *time.Time         `json:"expiresAt"`
	ExternalID  string             `gorm:"size:100" json:"externalId"`
	PaymentData datatypes.JSON     `json:"paymentData"`
}

// IsActive 等价于存储函数 user_has_active_subscription：
// 状态为 active 且（无到期时间或尚未到期）
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil || s.Status != StatusActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// HasPremiumAccess 是否可访问付费功能
func (s *Subscription) HasPremiumAccess(now time.Time) bool {
	if !s.IsActive(now) {
		return false
	}
	return s.PlanType == PlanPremium || s.PlanType == PlanVIP
}

// PaymentWebhookRequest 支付网关回调请求
type PaymentWebhookRequest struct {
	EventType     string         `json:"event_type" binding:"required"`
	UserID        uint           `json:"user_id" binding:"required"`
	PlanType      PlanType       `json:"plan_type"`
	TransactionID string         `json:"transaction_id"`
	ExpiresAt     *time.Time     `json:"expires_at"`
	PaymentData   map[string]any `json:"payment_data"`
}

// SubscriptionResponse 订阅响应，附带计算出的访问判定
type SubscriptionResponse struct {
	Subscription          *Subscription `json:"subscription"`
	HasActiveSubscription bool          `json:"hasActiveSubscription"`
	HasPremiumAccess      bool          `json:"hasPremiumAccess"`
}
