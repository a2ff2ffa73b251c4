package models

import (
	"gorm.io/gorm"
)

// Insight AI 根据聊天记录生成的建议
type Insight struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"userId"`
	Type    string `gorm:"size:50;not null" json:"type"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Score   int    `json:"score"`
}
