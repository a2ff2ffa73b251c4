package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSettingsReturnsDefaults(t *testing.T) {
	router := setupTest(t)

	body := requireStatus(t, doJSON(t, router, "GET", "/api/settings", nil), http.StatusOK)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, float64(50), settings["flirtLevel"])
	assert.Equal(t, true, settings["useEmojis"])
	assert.Equal(t, false, settings["proactiveMessages"])
}

func TestUpdateSettingsUpserts(t *testing.T) {
	router := setupTest(t)

	payload := map[string]any{
		"flirtLevel":    90,
		"romanceLevel":  10,
		"boldnessLevel": 70,
		"humorLevel":    40,
		"useEmojis":     false,
		"useSlang":      true,
		"shortReplies":  true,
		"customPrompt":  "sem papo de astrologia",
	}

	requireStatus(t, doJSON(t, router, "PUT", "/api/settings", payload), http.StatusOK)

	// 第二次写入更新同一行
	payload["flirtLevel"] = 95
	requireStatus(t, doJSON(t, router, "PUT", "/api/settings", payload), http.StatusOK)

	body := requireStatus(t, doJSON(t, router, "GET", "/api/settings", nil), http.StatusOK)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, float64(95), settings["flirtLevel"])
	assert.Equal(t, false, settings["useEmojis"])
	assert.Equal(t, "sem papo de astrologia", settings["customPrompt"])
}

func TestUpdateSettingsStoresZeroValues(t *testing.T) {
	router := setupTest(t)

	// 滑块 0 和开关 false 都是合法值，首次写入也必须原样落库
	payload := map[string]any{
		"flirtLevel":    0,
		"romanceLevel":  0,
		"boldnessLevel": 0,
		"humorLevel":    0,
		"useEmojis":     false,
		"useSlang":      false,
	}
	requireStatus(t, doJSON(t, router, "PUT", "/api/settings", payload), http.StatusOK)

	body := requireStatus(t, doJSON(t, router, "GET", "/api/settings", nil), http.StatusOK)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, float64(0), settings["flirtLevel"])
	assert.Equal(t, float64(0), settings["humorLevel"])
	assert.Equal(t, false, settings["useEmojis"])
	assert.Equal(t, false, settings["useSlang"])
}

func TestUpdateSettingsRejectsOutOfRangeSlider(t *testing.T) {
	router := setupTest(t)

	w := doJSON(t, router, "PUT", "/api/settings", map[string]any{
		"flirtLevel": 150,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	router := setupTest(t)

	requireStatus(t, doJSON(t, router, "POST", "/api/crushes", map[string]any{"name": "Ana"}), http.StatusCreated)
	startConversation(t, router, map[string]any{})

	body := requireStatus(t, doJSON(t, router, "GET", "/api/dashboard", nil), http.StatusOK)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), body["conversations"])
	assert.Equal(t, float64(0), body["messages"])

	recent := body["recentCrushes"].([]any)
	assert.Len(t, recent, 1)
}
