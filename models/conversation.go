package models

import (
	"time"

	"gorm.io/gorm"
)

// 会话类型
type ConversationType string

const (
	ConversationCrystalChat   ConversationType = "crystal_chat"
	ConversationCrushAnalysis ConversationType = "crush_analysis"
)

// 消息发送方
type Sender string

const (
	SenderUser    Sender = "user"
	SenderCrystal Sender = "crystal"
)

// Conversation 聊天会话，crush_id 为空表示与 Crystal 的通用会话
type Conversation struct {
	gorm.Model
	UserID    uint             `gorm:"not null;index" json:"userId"`
	CrushID   *uint            `gorm:"index" json:"crushId"`
	Type      ConversationType `gorm:"size:30;not null;default:'crystal_chat'" json:"type"`
	StartedAt time.Time        `json:"startedAt"`
	EndedAt   *time.Time       `json:"endedAt"`
	Messages  []Message        `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// Ended 会话是否已结束（结束为终态）
func (c *Conversation) Ended() bool {
	return c.EndedAt != nil
}

// Message 聊天消息，只追加，应用不做修改和删除
type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"not null;index" json:"conversationId"`
	Content        string `gorm:"type:text;not null" json:"content"`
	Sender         Sender `gorm:"size:20;not null" json:"sender"`
	ImageURL       string `gorm:"size:255" json:"imageUrl,omitempty"`
}

// StartConversationRequest 开始会话请求
type StartConversationRequest struct {
	CrushID *uint            `json:"crushId"`
	Type    ConversationType `json:"type"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	ImageBase64 string `json:"imageBase64"`
}
