package models

import (
	"time"

	"gorm.io/gorm"
)

// Stage 追求阶段
type Stage string

const (
	StagePrimeiroContato Stage = "Primeiro Contato"
	StageConversaInicial Stage = "Conversa Inicial"
	StageEncontro        Stage = "Encontro"
	StageRelacionamento  Stage = "Relacionamento"
)

// Stages 固定的看板阶段顺序
var Stages = []Stage{
	StagePrimeiroContato,
	StageConversaInicial,
	StageEncontro,
	StageRelacionamento,
}

// Valid 检查阶段是否为四个固定阶段之一
func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// Crush 追求对象
type Crush struct {
	gorm.Model
	UserID          uint       `gorm:"not null;index" json:"userId"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Age             int        `json:"age"`
	CurrentStage    Stage      `gorm:"size:50;not null;default:'Primeiro Contato'" json:"currentStage"`
	InterestLevel   int        `json:"interestLevel"` // 0-100，默认值由 CreateCrush 给出
	Position        int        `gorm:"not null;default:0" json:"position"`
	Notes           string     `gorm:"type:text" json:"notes"`
	PhotoURL        string     `gorm:"size:255" json:"photoUrl"`
	PhotoDeleteHash string     `gorm:"size:100" json:"-"`
	LastInteraction *time.Time `json:"lastInteraction"`
}

// CreateCrushRequest 创建追求对象请求
type CreateCrushRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	Age           int    `json:"age" binding:"omitempty,min=18,max=120"`
	CurrentStage  Stage  `json:"currentStage"`
	InterestLevel *int   `json:"interestLevel" binding:"omitempty,min=0,max=100"`
	Notes         string `json:"notes"`
	PhotoURL      string `json:"photoUrl"`
}

// UpdateCrushRequest 更新追求对象请求，零值指针表示不修改
type UpdateCrushRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	Age           *int    `json:"age" binding:"omitempty,min=18,max=120"`
	CurrentStage  *Stage  `json:"currentStage"`
	InterestLevel *int    `json:"interestLevel" binding:"omitempty,min=0,max=100"`
	Notes         *string `json:"notes"`
	PhotoURL      *string `json:"photoUrl"`
	Position      *int    `json:"position" binding:"omitempty,min=0"`
}

// MoveCrushRequest 拖拽移动请求
type MoveCrushRequest struct {
	Stage    Stage `json:"stage" binding:"required"`
	Position int   `json:"position" binding:"min=0"`
}
