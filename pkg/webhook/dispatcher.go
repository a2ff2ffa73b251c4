package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Padrim222/Crystal.v2-sub000/configs"

	"go.uber.org/zap"
)

// Category 事件类别，决定转发到哪个 n8n webhook 地址
type Category string

const (
	CategoryCrush        Category = "crush"
	CategoryConversation Category = "conversation"
	CategoryDashboard    Category = "dashboard"
	CategoryAnalytics    Category = "analytics"
	CategoryPayment      Category = "payment"
)

// Event 发往 webhook 的事件体
type Event struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Result 单个目标的投递结果
type Result struct {
	URL     string `json:"url"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Dispatcher 把业务事件 best-effort 转发到外部 webhook。
// 投递失败只记日志，从不影响触发它的主操作，也不重试。
type Dispatcher struct {
	urls   map[Category]string
	secret string
	client *http.Client
	logger *zap.Logger
}

func NewDispatcher(cfg configs.Webhooks, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		urls: map[Category]string{
			CategoryCrush:        cfg.CrushURL,
			CategoryConversation: cfg.ConversationURL,
			CategoryDashboard:    cfg.DashboardURL,
			CategoryAnalytics:    cfg.AnalyticsURL,
			CategoryPayment:      cfg.PaymentURL,
		},
		secret: cfg.Secret,
		client: &http.Client{},
		logger: logger,
	}
}

// URLFor 返回类别对应的配置地址，未配置时为空串
func (d *Dispatcher) URLFor(category Category) string {
	return d.urls[category]
}

// Dispatch 异步投递到类别配置的地址。类别未配置地址时静默跳过。
func (d *Dispatcher) Dispatch(category Category, eventType string, data any) {
	url := d.urls[category]
	if url == "" {
		return
	}
	go func() {
		if res := d.Send(url, eventType, data); !res.Success {
			d.logger.Warn("webhook delivery failed",
				zap.String("category", string(category)),
				zap.String("event", eventType),
				zap.String("error", res.Error))
		}
	}()
}

// Send 同步投递到单个地址
func (d *Dispatcher) Send(url, eventType string, data any) Result {
	payload, err := json.Marshal(Event{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return Result{URL: url, Error: err.Error()}
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return Result{URL: url, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set("X-Webhook-Secret", d.secret)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{URL: url, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Result{URL: url, Error: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	return Result{URL: url, Success: true}
}

// FanOut 同步投递到调用方给定的一组地址，逐个统计成败
func (d *Dispatcher) FanOut(urls []string, eventType string, data any) []Result {
	results := make([]Result, 0, len(urls))
	for _, url := range urls {
		results = append(results, d.Send(url, eventType, data))
	}
	return results
}
