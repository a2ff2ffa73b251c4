package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Padrim222/Crystal.v2-sub000/configs"
	"github.com/Padrim222/Crystal.v2-sub000/database"
	"github.com/Padrim222/Crystal.v2-sub000/models"
	"github.com/Padrim222/Crystal.v2-sub000/pkg/ai"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startConversation(t *testing.T, router *gin.Engine, payload map[string]any) uint {
	t.Helper()
	body := requireStatus(t, doJSON(t, router, "POST", "/api/conversations", payload), http.StatusCreated)
	return uint(body["conversation"].(map[string]any)["ID"].(float64))
}

func TestStartConversationDefaultsToCrystalChat(t *testing.T) {
	router := setupTest(t)

	body := requireStatus(t, doJSON(t, router, "POST", "/api/conversations", map[string]any{}), http.StatusCreated)
	conv := body["conversation"].(map[string]any)
	assert.Equal(t, string(models.ConversationCrystalChat), conv["type"])
	assert.Nil(t, conv["crushId"])
	assert.Nil(t, conv["endedAt"])
}

func TestStartConversationRejectsForeignCrush(t *testing.T) {
	router := setupTest(t)

	other := models.Crush{UserID: 2, Name: "Zoe", CurrentStage: models.StagePrimeiroContato}
	require.NoError(t, database.DB.Create(&other).Error)

	w := doJSON(t, router, "POST", "/api/conversations", map[string]any{"crushId": other.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// 上游不可用时，每条用户消息仍然得到且只得到一条 crystal 兜底回复
func TestSendMessageFallbackOnProviderFailure(t *testing.T) {
	router := setupTest(t)
	convID := startConversation(t, router, map[string]any{})

	body := requireStatus(t, doJSON(t, router, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID), map[string]any{
		"content": "oi Crystal",
	}), http.StatusOK)

	assert.Equal(t, true, body["degraded"])
	reply := body["reply"].(map[string]any)
	assert.Equal(t, string(models.SenderCrystal), reply["sender"])
	assert.Equal(t, ai.FallbackReply, reply["content"])

	var messages []models.Message
	require.NoError(t, database.DB.Where("conversation_id = ?", convID).Find(&messages).Error)
	crystalCount := 0
	for _, m := range messages {
		if m.Sender == models.SenderCrystal {
			crystalCount++
		}
	}
	assert.Equal(t, 1, crystalCount)
	assert.Len(t, messages, 2)
}

func TestSendMessageUsesProviderReply(t *testing.T) {
	router := setupTest(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Manda ver, amiga!"}}]}`))
	}))
	defer server.Close()
	ai.InitConfig(configs.AI{APIKey: "k", Model: "m", VisionModel: "v", APIURL: server.URL})
	defer ai.InitConfig(configs.AI{})

	convID := startConversation(t, router, map[string]any{})
	body := requireStatus(t, doJSON(t, router, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID), map[string]any{
		"content": "devo chamar pra sair?",
	}), http.StatusOK)

	assert.Equal(t, false, body["degraded"])
	assert.Equal(t, "Manda ver, amiga!", body["reply"].(map[string]any)["content"])
}

func TestMessagesOrderedAscending(t *testing.T) {
	router := setupTest(t)
	convID := startConversation(t, router, map[string]any{})

	for _, content := range []string{"primeira", "segunda"} {
		requireStatus(t, doJSON(t, router, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID), map[string]any{
			"content": content,
		}), http.StatusOK)
	}

	body := requireStatus(t, doJSON(t, router, "GET", fmt.Sprintf("/api/conversations/%d/messages", convID), nil), http.StatusOK)
	messages := body["messages"].([]any)
	require.Len(t, messages, 4) // 2 do usuário + 2 da Crystal
	assert.Equal(t, "primeira", messages[0].(map[string]any)["content"])
}

func TestEndConversationIsTerminal(t *testing.T) {
	router := setupTest(t)
	convID := startConversation(t, router, map[string]any{})

	body := requireStatus(t, doJSON(t, router, "POST", fmt.Sprintf("/api/conversations/%d/end", convID), nil), http.StatusOK)
	assert.NotNil(t, body["conversation"].(map[string]any)["endedAt"])

	// 结束后不能再发消息，也不能再次结束
	w := doJSON(t, router, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID), map[string]any{"content": "oi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/conversations/%d/end", convID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
