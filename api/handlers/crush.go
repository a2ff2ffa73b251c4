package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/pipeline"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/webhook"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func loadCrushes(tx *gorm.DB, userID any) ([]models.Crush, error) {
	var crushes []models.Crush
	err := tx.Where("user_id = ?", userID).
		Order("current_stage, position").
		Find(&crushes).Error
	return crushes, err
}

// GetCrushes 获取扁平列表
func GetCrushes(c *gin.Context) {
	userID, _ := c.Get("userID")

	crushes, err := loadCrushes(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crushes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"crushes": crushes,
	})
}

// GetBoard 获取按阶段分组的看板视图和统计
func GetBoard(c *gin.Context) {
	userID, _ := c.Get("userID")

	crushes, err := loadCrushes(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crushes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": pipeline.GroupByStage(crushes),
		"stats":   pipeline.ComputeStats(crushes),
	})
}

// CreateCrush 新建追求对象，插入到所在阶段顶部（position 0），
// 同阶段已有成员整体下移一格，全部在一个事务里完成
func CreateCrush(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req models.CreateCrushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stage := req.CurrentStage
	if stage == "" {
		stage = models.StagePrimeiroContato
	}
	if !stage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage"})
		return
	}

	interest := 50
	if req.InterestLevel != nil {
		interest = *req.InterestLevel
	}

	now := time.Now()
	crush := models.Crush{
		UserID:          userID.(uint),
		Name:            req.Name,
		Age:             req.Age,
		CurrentStage:    stage,
		InterestLevel:   interest,
		Position:        0,
		Notes:           req.Notes,
		PhotoURL:        req.PhotoURL,
		LastInteraction: &now,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Crush{}).
			Where("user_id = ? AND current_stage = ?", userID, stage).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
		return tx.Create(&crush).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create crush"})
		return
	}

	dispatcher.Dispatch(webhook.CategoryCrush, "crush_created", crush)

	c.JSON(http.StatusCreated, gin.H{
		"crush": crush,
	})
}

func findOwnedCrush(c *gin.Context) (*models.Crush, bool) {
	userID, _ := c.Get("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crush ID"})
		return nil, false
	}

	var crush models.Crush
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&crush).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crush not found"})
		return nil, false
	}
	return &crush, true
}

// UpdateCrush 部分更新字段
func UpdateCrush(c *gin.Context) {
	crush, ok := findOwnedCrush(c)
	if !ok {
		return
	}

	var req models.UpdateCrushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CurrentStage != nil && !req.CurrentStage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage"})
		return
	}

	if req.Name != nil {
		crush.Name = *req.Name
	}
	if req.Age != nil {
		crush.Age = *req.Age
	}
	if req.CurrentStage != nil {
		crush.CurrentStage = *req.CurrentStage
	}
	if req.InterestLevel != nil {
		crush.InterestLevel = *req.InterestLevel
	}
	if req.Notes != nil {
		crush.Notes = *req.Notes
	}
	if req.PhotoURL != nil {
		crush.PhotoURL = *req.PhotoURL
	}
	if req.Position != nil {
		crush.Position = *req.Position
	}
	now := time.Now()
	crush.LastInteraction = &now

	if err := database.DB.Save(crush).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update crush"})
		return
	}

	dispatcher.Dispatch(webhook.CategoryCrush, "crush_updated", crush)

	c.JSON(http.StatusOK, gin.H{
		"crush": crush,
	})
}

// DeleteCrush 删除并对所在阶段剩余成员重新编号
func DeleteCrush(c *gin.Context) {
	userID, _ := c.Get("userID")
	crush, ok := findOwnedCrush(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		crushes, err := loadCrushes(tx, userID)
		if err != nil {
			return err
		}
		for _, upd := range pipeline.PlanRemoval(crushes, crush.ID) {
			if err := tx.Model(&models.Crush{}).Where("id = ?", upd.ID).
				Update("position", upd.Position).Error; err != nil {
				return err
			}
		}
		return tx.Delete(crush).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete crush"})
		return
	}

	dispatcher.Dispatch(webhook.CategoryCrush, "crush_deleted", gin.H{"id": crush.ID, "name": crush.Name})

	c.JSON(http.StatusOK, gin.H{
		"message": "Crush deleted successfully",
	})
}

// MoveCrush 拖拽移动：在一个事务里完成阶段/位置重排，
// 返回移动后的规范看板，客户端无需再发一次全量拉取
func MoveCrush(c *gin.Context) {
	userID, _ := c.Get("userID")
	crush, ok := findOwnedCrush(c)
	if !ok {
		return
	}

	var req models.MoveCrushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Stage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage"})
		return
	}

	stageChanged := crush.CurrentStage != req.Stage

	var crushes []models.Crush
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := loadCrushes(tx, userID)
		if err != nil {
			return err
		}

		updates, err := pipeline.PlanMove(current, crush.ID, req.Stage, req.Position)
		if err != nil {
			return err
		}
		for _, upd := range updates {
			if err := tx.Model(&models.Crush{}).Where("id = ?", upd.ID).
				Updates(map[string]any{
					"current_stage": upd.Stage,
					"position":      upd.Position,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Crush{}).Where("id = ?", crush.ID).
			Update("last_interaction", time.Now()).Error; err != nil {
			return err
		}

		crushes, err = loadCrushes(tx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrCrushNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Crush not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move crush"})
		return
	}

	if stageChanged {
		dispatcher.Dispatch(webhook.CategoryCrush, "crush_stage_changed", gin.H{
			"id":   crush.ID,
			"name": crush.Name,
			"from": crush.CurrentStage,
			"to":   req.Stage,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": pipeline.GroupByStage(crushes),
		"stats":   pipeline.ComputeStats(crushes),
	})
}
