// Package gemini は Gemini API によるストーリー生成と音声合成を提供します
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// ErrUnavailable はブレーカーが開いていて呼び出しを行わなかったことを表します
var ErrUnavailable = errors.New("gemini: circuit open")

// contentGenerator は *genai.Models のうち利用する部分
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client はリトライをしない。連続失敗時はブレーカーで即座に失敗させる
type Client struct {
	models  contentGenerator
	breaker *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
	metrics *metrics.Metrics
}

func NewClient(ctx context.Context, cfg config.GeminiConfig, m *metrics.Metrics) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is not configured")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newClient(c.Models, cfg, m), nil
}

func newClient(models contentGenerator, cfg config.GeminiConfig, m *metrics.Metrics) *Client {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// 呼び出し側のキャンセルは API の障害として数えない
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		models:  models,
		breaker: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings),
		metrics: m,
	}
}

func (c *Client) generate(ctx context.Context, target, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := c.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return c.models.GenerateContent(ctx, model, contents, cfg)
	})
	c.metrics.ExternalCall(target, err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, err
}

// responseText は最初の候補のテキストパートを連結します
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// firstInlineData は最初の候補のバイナリパートを返します
func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return p.InlineData
		}
	}
	return nil
}
