package pipeline

import (
	"errors"
	"math"
	"sort"

	"github.com/Padrim222/Crystal.v2-sub000/models"
)

var ErrCrushNotFound = errors.New("crush not found")

// Column 看板中的一列，按 position 升序排列
type Column struct {
	Stage   models.Stage   `json:"stage"`
	Crushes []models.Crush `json:"crushes"`
}

// PositionUpdate 一次移动后需要落库的行变更
type PositionUpdate struct {
	ID       uint
	Stage    models.Stage
	Position int
}

// Stats 看板统计
type Stats struct {
	Total       int                  `json:"total"`
	ByStage     map[models.Stage]int `json:"byStage"`
	SuccessRate int                  `json:"successRate"`
}

// GroupByStage 把扁平列表派生成有序看板视图。
// 四个固定阶段总是全部出现，空阶段渲染为空列。
func GroupByStage(crushes []models.Crush) []Column {
	byStage := make(map[models.Stage][]models.Crush, len(models.Stages))
	for _, c := range crushes {
		byStage[c.CurrentStage] = append(byStage[c.CurrentStage], c)
	}

	columns := make([]Column, 0, len(models.Stages))
	for _, stage := range models.Stages {
		members := byStage[stage]
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Position != members[j].Position {
				return members[i].Position < members[j].Position
			}
			return members[i].ID < members[j].ID
		})
		columns = append(columns, Column{Stage: stage, Crushes: members})
	}
	return columns
}

// PlanMove 计算把 id 移动到 (target, position) 后两个受影响阶段的
// 规范排序。两个阶段都重排为从 0 开始的连续序列；position 超出
// 目标阶段长度时按追加到末尾处理（拖到空白区域的语义）。
// 只返回 stage 或 position 发生变化的行。
func PlanMove(crushes []models.Crush, id uint, target models.Stage, position int) ([]PositionUpdate, error) {
	var dragged *models.Crush
	for i := range crushes {
		if crushes[i].ID == id {
			dragged = &crushes[i]
			break
		}
	}
	if dragged == nil {
		return nil, ErrCrushNotFound
	}

	source := dragged.CurrentStage
	columns := GroupByStage(crushes)
	ordered := make(map[models.Stage][]models.Crush, len(columns))
	for _, col := range columns {
		ordered[col.Stage] = col.Crushes
	}

	// 先从源阶段摘除
	src := ordered[source]
	for i := range src {
		if src[i].ID == id {
			src = append(src[:i:i], src[i+1:]...)
			break
		}
	}
	ordered[source] = src

	dst := ordered[target]
	if position > len(dst) {
		position = len(dst)
	}
	dst = append(dst[:position:position], append([]models.Crush{*dragged}, dst[position:]...)...)
	ordered[target] = dst

	var updates []PositionUpdate
	for _, stage := range []models.Stage{target, source} {
		for idx, c := range ordered[stage] {
			if c.CurrentStage != stage || c.Position != idx {
				updates = append(updates, PositionUpdate{ID: c.ID, Stage: stage, Position: idx})
			}
		}
		if source == target {
			break
		}
	}
	return updates, nil
}

// PlanInsertTop 新卡插到阶段顶部：已有成员整体下移一格
func PlanInsertTop(crushes []models.Crush, stage models.Stage) []PositionUpdate {
	var updates []PositionUpdate
	for _, col := range GroupByStage(crushes) {
		if col.Stage != stage {
			continue
		}
		for idx, c := range col.Crushes {
			updates = append(updates, PositionUpdate{ID: c.ID, Stage: stage, Position: idx + 1})
		}
	}
	return updates
}

// PlanRemoval 删除后对所在阶段的剩余成员重新编号
func PlanRemoval(crushes []models.Crush, id uint) []PositionUpdate {
	var stage models.Stage
	found := false
	for _, c := range crushes {
		if c.ID == id {
			stage = c.CurrentStage
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var updates []PositionUpdate
	for _, col := range GroupByStage(crushes) {
		if col.Stage != stage {
			continue
		}
		idx := 0
		for _, c := range col.Crushes {
			if c.ID == id {
				continue
			}
			if c.Position != idx {
				updates = append(updates, PositionUpdate{ID: c.ID, Stage: stage, Position: idx})
			}
			idx++
		}
	}
	return updates
}

// ComputeStats 总数、各阶段数量和成功率。
// 成功率 = 终态阶段数量 / 总数，四舍五入为整数百分比，空看板为 0。
func ComputeStats(crushes []models.Crush) Stats {
	stats := Stats{ByStage: make(map[models.Stage]int, len(models.Stages))}
	for _, stage := range models.Stages {
		stats.ByStage[stage] = 0
	}
	for _, c := range crushes {
		stats.Total++
		stats.ByStage[c.CurrentStage]++
	}
	if stats.Total > 0 {
		ratio := float64(stats.ByStage[models.StageRelacionamento]) / float64(stats.Total)
		stats.SuccessRate = int(math.Round(ratio * 100))
	}
	return stats
}
