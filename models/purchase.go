package models

import (
	"gorm.io/gorm"
)

// 支付流水状态
type PurchaseStatus string

const (
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// Purchase 支付流水，每个网关事件一行，只追加
type Purchase struct {
	gorm.Model
	UserID        uint           `gorm:"not null;index" json:"userId"`
	OrderNo       string         `gorm:"size:50;not null;unique" json:"orderNo"`
	PlanType      PlanType       `gorm:"size:20" json:"planType"`
	Status        PurchaseStatus `gorm:"size:20;not null" json:"status"`
	TransactionID string         `gorm:"size:100" json:"transactionId"`
}
