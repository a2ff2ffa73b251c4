package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InsightDraft LLM 返回的单条洞察
type InsightDraft struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Score   int    `json:"score"`
}

const insightsPrompt = `Você é a Crystal, coach de relacionamentos. Analise o histórico de conversas abaixo e devolva de 3 a 8 insights sobre o comportamento romântico do usuário.

Responda SOMENTE com um array JSON válido, sem texto antes ou depois, no formato:
[{"type":"...","title":"...","content":"...","score":0}]

Valores de "type": communication, confidence, timing, strategy.
"score" é um inteiro de 0 a 100.`

// GenerateInsights 把会话文本批量送给 LLM 并严格解析 JSON 数组。
// 解析失败直接报错，不做修复尝试，也不持久化部分结果。
func GenerateInsights(transcript string) ([]InsightDraft, error) {
	messages := []openAIMessage{
		{Role: "system", Content: insightsPrompt},
		{Role: "user", Content: transcript},
	}

	raw, err := complete(openAIRequest{Model: model, Messages: messages})
	if err != nil {
		return nil, err
	}

	// 模型偶尔会包一层 markdown 代码块
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var drafts []InsightDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &drafts); err != nil {
		return nil, fmt.Errorf("parse insights response: %w", err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("empty insights response")
	}
	return drafts, nil
}
