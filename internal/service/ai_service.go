package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"smart_edu_backend/internal/config"
	"smart_edu_backend/pkg/monitoring"
)

// GatewayErrorKind 网关错误分类
type GatewayErrorKind string

const (
	GatewayConfig  GatewayErrorKind = "config"
	GatewayTimeout GatewayErrorKind = "timeout"
	GatewayStatus  GatewayErrorKind = "status"
)

// GatewayError 模型网关调用失败，Kind 区分配置缺失、超时与上游状态码错误
type GatewayError struct {
	Kind       GatewayErrorKind
	Message    string
	StatusCode int
}

func (e *GatewayError) Error() string {
	if e.Kind == GatewayStatus {
		return fmt.Sprintf("model gateway: upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("model gateway: %s: %s", e.Kind, e.Message)
}

// ModelReply 单次补全的结果
type ModelReply struct {
	Content      string
	TokensUsed   int
	ResponseTime float64
}

// ModelGateway 屏蔽具体模型供应商的补全接口
type ModelGateway interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*ModelReply, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// AIService 调用 OpenAI 兼容的 chat completions 接口
type AIService struct {
	cfg    *config.AIConfig
	client *http.Client
}

func NewAIService(cfg *config.AIConfig) *AIService {
	return &AIService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (s *AIService) Complete(ctx context.Context, systemPrompt, userPrompt string) (*ModelReply, error) {
	if s.cfg.APIKey == "" {
		monitoring.GatewayCalls.WithLabelValues("config").Inc()
		return nil, &GatewayError{Kind: GatewayConfig, Message: "API key is not configured"}
	}

	body := chatRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := s.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			monitoring.GatewayCalls.WithLabelValues("timeout").Inc()
			return nil, &GatewayError{Kind: GatewayTimeout, Message: err.Error()}
		}
		monitoring.GatewayCalls.WithLabelValues("status").Inc()
		return nil, &GatewayError{Kind: GatewayStatus, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		monitoring.GatewayCalls.WithLabelValues("status").Inc()
		return nil, &GatewayError{Kind: GatewayStatus, Message: string(raw), StatusCode: resp.StatusCode}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		monitoring.GatewayCalls.WithLabelValues("status").Inc()
		return nil, &GatewayError{Kind: GatewayStatus, Message: "malformed upstream response", StatusCode: resp.StatusCode}
	}
	if len(parsed.Choices) == 0 {
		monitoring.GatewayCalls.WithLabelValues("status").Inc()
		return nil, &GatewayError{Kind: GatewayStatus, Message: "upstream returned no choices", StatusCode: resp.StatusCode}
	}

	monitoring.GatewayCalls.WithLabelValues("ok").Inc()
	monitoring.GatewayTokens.Add(float64(parsed.Usage.TotalTokens))

	return &ModelReply{
		Content:      parsed.Choices[0].Message.Content,
		TokensUsed:   parsed.Usage.TotalTokens,
		ResponseTime: elapsed,
	}, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
