package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Padrim222/Crystal.v2-sub000/configs"
	"github.com/Padrim222/Crystal.v2-sub000/models"
)

// AI相关配置
var (
	apiKey      string
	model       string
	visionModel string
	apiURL      = "https://api.openai.com/v1/chat/completions"
)

// FallbackReply 上游失败时的固定兜底回复，保证对话不会缺少回应
const FallbackReply = "Amor, tive um probleminha técnico aqui do meu lado... 😅 Me manda de novo? Prometo que dessa vez eu respondo direitinho! 💕"

// 初始化AI配置
func InitConfig(cfg configs.AI) {
	apiKey = cfg.APIKey
	model = cfg.Model
	visionModel = cfg.VisionModel
	if cfg.APIURL != "" {
		apiURL = cfg.APIURL
	}
}

// ChatTurn 带角色标记的历史消息
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// 请求结构体，带图片时 content 是分段数组
type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type imagePart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

// 响应结构体
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

const personaPrompt = `Você é a Crystal, uma coach de relacionamentos brasileira: carinhosa, divertida e direta quando precisa.

Regras de tom e formato:
- Responda sempre em português brasileiro, em tom de conversa entre amigas.
- Dê conselhos práticos sobre paquera, conversa e encontros, nunca julgue.
- Respostas curtas a médias, no máximo três parágrafos.
- Nunca diga que você é um modelo de linguagem ou uma IA genérica: você é a Crystal.
- Se o assunto fugir de relacionamentos, traga a conversa de volta com leveza.`

// BuildPersonaPrompt 根据用户的个性化设置拼装 Crystal 的 system prompt
func BuildPersonaPrompt(settings *models.UserSettings, crushName, contextInfo string) string {
	var b strings.Builder
	b.WriteString(personaPrompt)

	if settings != nil {
		b.WriteString("\n\nAjustes de personalidade (0-100):")
		fmt.Fprintf(&b, "\n- Flerte: %d", settings.FlirtLevel)
		fmt.Fprintf(&b, "\n- Romantismo: %d", settings.RomanceLevel)
		fmt.Fprintf(&b, "\n- Ousadia: %d", settings.BoldnessLevel)
		fmt.Fprintf(&b, "\n- Humor: %d", settings.HumorLevel)
		if settings.UseEmojis {
			b.WriteString("\n- Use emojis com naturalidade.")
		} else {
			b.WriteString("\n- Não use emojis.")
		}
		if settings.UseSlang {
			b.WriteString("\n- Pode usar gírias brasileiras.")
		}
		if settings.ShortReplies {
			b.WriteString("\n- Prefira respostas bem curtas, de uma ou duas frases.")
		}
		if settings.CustomPrompt != "" {
			b.WriteString("\n\nInstruções extras do usuário: ")
			b.WriteString(settings.CustomPrompt)
		}
	}
	if crushName != "" {
		fmt.Fprintf(&b, "\n\nA conversa é sobre o crush chamado %s.", crushName)
	}
	if contextInfo != "" {
		b.WriteString("\n\nContexto adicional: ")
		b.WriteString(contextInfo)
	}
	return b.String()
}

// Reply 生成一次 Crystal 回复。带图片时切换视觉模型，不做流式输出。
func Reply(message, persona string, history []ChatTurn, imageBase64 string) (string, error) {
	if apiKey == "" {
		return "", errors.New("AI provider not configured")
	}

	messages := []openAIMessage{{Role: "system", Content: persona}}
	for _, turn := range history {
		messages = append(messages, openAIMessage{Role: turn.Role, Content: turn.Content})
	}

	useModel := model
	if imageBase64 != "" {
		useModel = visionModel
		url := imageBase64
		if !strings.HasPrefix(url, "data:") {
			url = "data:image/jpeg;base64," + url
		}
		img := &struct {
			URL string `json:"url"`
		}{URL: url}
		messages = append(messages, openAIMessage{Role: "user", Content: []imagePart{
			{Type: "text", Text: message},
			{Type: "image_url", ImageURL: img},
		}})
	} else {
		messages = append(messages, openAIMessage{Role: "user", Content: message})
	}

	return complete(openAIRequest{Model: useModel, Messages: messages})
}

func complete(requestBody openAIRequest) (string, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var response openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", err
	}

	if response.Error.Message != "" {
		return "", errors.New(response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	return response.Choices[0].Message.Content, nil
}
