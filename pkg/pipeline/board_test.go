package pipeline

import (
	"testing"

	"github.com/Padrim222/Crystal.v2-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crush(id uint, name string, stage models.Stage, position int) models.Crush {
	c := models.Crush{Name: name, CurrentStage: stage, Position: position}
	c.ID = id
	return c
}

// 应用一组 PositionUpdate，模拟落库
func apply(crushes []models.Crush, updates []PositionUpdate) []models.Crush {
	out := make([]models.Crush, len(crushes))
	copy(out, crushes)
	for _, upd := range updates {
		for i := range out {
			if out[i].ID == upd.ID {
				out[i].CurrentStage = upd.Stage
				out[i].Position = upd.Position
			}
		}
	}
	return out
}

// 每个阶段的 position 必须是从 0 开始的连续递增序列
func assertContiguous(t *testing.T, crushes []models.Crush) {
	t.Helper()
	for _, col := range GroupByStage(crushes) {
		for idx, c := range col.Crushes {
			assert.Equal(t, idx, c.Position,
				"stage %q member %q should be at position %d", col.Stage, c.Name, idx)
		}
	}
}

func TestGroupByStageEmptyColumns(t *testing.T) {
	columns := GroupByStage(nil)
	require.Len(t, columns, 4)
	for i, col := range columns {
		assert.Equal(t, models.Stages[i], col.Stage)
		assert.Empty(t, col.Crushes)
	}
}

func TestGroupByStageOrdersByPosition(t *testing.T) {
	crushes := []models.Crush{
		crush(1, "Bia", models.StagePrimeiroContato, 1),
		crush(2, "Ana", models.StagePrimeiroContato, 0),
		crush(3, "Carla", models.StageEncontro, 0),
	}

	columns := GroupByStage(crushes)
	assert.Equal(t, "Ana", columns[0].Crushes[0].Name)
	assert.Equal(t, "Bia", columns[0].Crushes[1].Name)
	assert.Equal(t, "Carla", columns[2].Crushes[0].Name)
	assert.Empty(t, columns[1].Crushes)
	assert.Empty(t, columns[3].Crushes)
}

func TestPlanMoveAcrossStages(t *testing.T) {
	crushes := []models.Crush{
		crush(1, "Ana", models.StagePrimeiroContato, 0),
		crush(2, "Bia", models.StagePrimeiroContato, 1),
		crush(3, "Carla", models.StagePrimeiroContato, 2),
		crush(4, "Dani", models.StageEncontro, 0),
	}

	updates, err := PlanMove(crushes, 2, models.StageEncontro, 0)
	require.NoError(t, err)

	after := apply(crushes, updates)
	assertContiguous(t, after)

	columns := GroupByStage(after)
	// 源阶段保持相对顺序
	require.Len(t, columns[0].Crushes, 2)
	assert.Equal(t, "Ana", columns[0].Crushes[0].Name)
	assert.Equal(t, "Carla", columns[0].Crushes[1].Name)
	// 插入到目标索引之前
	require.Len(t, columns[2].Crushes, 2)
	assert.Equal(t, "Bia", columns[2].Crushes[0].Name)
	assert.Equal(t, "Dani", columns[2].Crushes[1].Name)
}

func TestPlanMoveWithinStage(t *testing.T) {
	crushes := []models.Crush{
		crush(1, "Ana", models.StagePrimeiroContato, 0),
		crush(2, "Bia", models.StagePrimeiroContato, 1),
		crush(3, "Carla", models.StagePrimeiroContato, 2),
	}

	updates, err := PlanMove(crushes, 1, models.StagePrimeiroContato, 2)
	require.NoError(t, err)

	after := apply(crushes, updates)
	assertContiguous(t, after)

	names := []string{}
	for _, c := range GroupByStage(after)[0].Crushes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Bia", "Carla", "Ana"}, names)
}

func TestPlanMoveClampsToAppend(t *testing.T) {
	crushes := []models.Crush{
		crush(1, "Ana", models.StagePrimeiroContato, 0),
		crush(2, "Bia", models.StageEncontro, 0),
	}

	// 拖到空白区域：position 远超目标阶段长度，按追加处理
	updates, err := PlanMove(crushes, 1, models.StageEncontro, 99)
	require.NoError(t, err)

	after := apply(crushes, updates)
	assertContiguous(t, after)

	col := GroupByStage(after)[2]
	require.Len(t, col.Crushes, 2)
	assert.Equal(t, "Bia", col.Crushes[0].Name)
	assert.Equal(t, "Ana", col.Crushes[1].Name)
}

func TestPlanMoveToEmptyStage(t *testing.T) {
	crushes := []models.Crush{
		crush(1, "Ana", models.StagePrimeiroContato, 0),
	}

	updates, err := PlanMove(crushes, 1, models.StageRelacionamento, 0)
	require.NoError(t, err)

	after := apply(crushes, updates)
	assertContiguous(t, after)
	assert.Equal(t, models.StageRelacionamento, after[0].CurrentStage)
	assert.Equal(t, 0, after[0].Position)
}

func TestPlanMoveUnknownID(t *testing.T) {
	_, err := PlanMove(nil, 42, models.StageEncontro, 0)
	assert.ErrorIs(t, err, ErrCrushNotFound)
}

// 规范场景：空看板 → 添加 Ana → 添加 Bia（Ana 下移）→ Ana 拖到 Encontro
func TestAddThenMoveScenario(t *testing.T) {
	var crushes []models.Crush

	// 添加 Ana：阶段默认 Primeiro Contato，position 0
	ana := crush(1, "Ana", models.StagePrimeiroContato, 0)
	crushes = append(crushes, ana)

	// 添加 Bia 到顶部：已有成员整体下移
	updates := PlanInsertTop(crushes, models.StagePrimeiroContato)
	crushes = apply(crushes, updates)
	bia := crush(2, "Bia", models.StagePrimeiroContato, 0)
	crushes = append(crushes, bia)
	assertContiguous(t, crushes)

	// Ana 拖到 Encontro 的索引 0
	updates, err := PlanMove(crushes, 1, models.StageEncontro, 0)
	require.NoError(t, err)
	crushes = apply(crushes, updates)
	assertContiguous(t, crushes)

	columns := GroupByStage(crushes)
	require.Len(t, columns[0].Crushes, 1)
	assert.Equal(t, "Bia", columns[0].Crushes[0].Name)
	assert.Equal(t, 0, columns[0].Crushes[0].Position)
	require.Len(t, columns[2].Crushes, 1)
	assert.Equal(t, "Ana", columns[2].Crushes[0].Name)
	assert.Equal(t, 0, columns[2].Crushes[0].Position)
}

func TestPlanRemovalRenumbers(t *testing.T) {
	crushes := []models.Crush{
		crush(1, "Ana", models.StagePrimeiroContato, 0),
		crush(2, "Bia", models.StagePrimeiroContato, 1),
		crush(3, "Carla", models.StagePrimeiroContato, 2),
	}

	updates := PlanRemoval(crushes, 2)
	require.Len(t, updates, 1)
	assert.Equal(t, uint(3), updates[0].ID)
	assert.Equal(t, 1, updates[0].Position)
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name         string
		crushes      []models.Crush
		total        int
		successRate  int
	}{
		{"empty board", nil, 0, 0},
		{
			"no relationships",
			[]models.Crush{
				crush(1, "Ana", models.StagePrimeiroContato, 0),
				crush(2, "Bia", models.StageEncontro, 0),
			},
			2, 0,
		},
		{
			"one of three",
			[]models.Crush{
				crush(1, "Ana", models.StageRelacionamento, 0),
				crush(2, "Bia", models.StageEncontro, 0),
				crush(3, "Carla", models.StagePrimeiroContato, 0),
			},
			3, 33,
		},
		{
			"two of three rounds up",
			[]models.Crush{
				crush(1, "Ana", models.StageRelacionamento, 0),
				crush(2, "Bia", models.StageRelacionamento, 1),
				crush(3, "Carla", models.StagePrimeiroContato, 0),
			},
			3, 67,
		},
		{
			"all relationships",
			[]models.Crush{
				crush(1, "Ana", models.StageRelacionamento, 0),
			},
			1, 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats(tt.crushes)
			assert.Equal(t, tt.total, stats.Total)
			assert.Equal(t, tt.successRate, stats.SuccessRate)
			assert.Len(t, stats.ByStage, 4)
		})
	}
}
