package models

import (
	"gorm.io/gorm"
)

// UserSettings Crystal 个性化设置，与 Profile 一对一
type UserSettings struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"userId"`

	// 人格滑块 0-100。默认值在 GetSettings 里给，
	// 不用 gorm default 标签：零值 0/false 是合法写入，标签会把它吞掉
	FlirtLevel    int `json:"flirtLevel"`
	RomanceLevel  int `json:"romanceLevel"`
	BoldnessLevel int `json:"boldnessLevel"`
	HumorLevel    int `json:"humorLevel"`

	// 行为开关
	UseEmojis         bool `json:"useEmojis"`
	UseSlang          bool `json:"useSlang"`
	ProactiveMessages bool `json:"proactiveMessages"`
	ShortReplies      bool `json:"shortReplies"`

	CustomPrompt string `gorm:"type:text" json:"customPrompt"`
}

// UpdateSettingsRequest 个性化设置 upsert 请求
type UpdateSettingsRequest struct {
	FlirtLevel        int    `json:"flirtLevel" binding:"min=0,max=100"`
	RomanceLevel      int    `json:"romanceLevel" binding:"min=0,max=100"`
	BoldnessLevel     int    `json:"boldnessLevel" binding:"min=0,max=100"`
	HumorLevel        int    `json:"humorLevel" binding:"min=0,max=100"`
	UseEmojis         bool   `json:"useEmojis"`
	UseSlang          bool   `json:"useSlang"`
	ProactiveMessages bool   `json:"proactiveMessages"`
	ShortReplies      bool   `json:"shortReplies"`
	CustomPrompt      string `json:"customPrompt" binding:"max=2000"`
}
