package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/retry"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AnthropicConnector answers with a Claude model through the Messages API.
type AnthropicConnector struct {
	config config.ChatConfig
	client anthropic.Client
}

func NewAnthropicConnector(cfg config.ChatConfig) *AnthropicConnector {
	return newAnthropicConnector(cfg)
}

func newAnthropicConnector(cfg config.ChatConfig, extra ...option.RequestOption) *AnthropicConnector {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.RequestTimeout),
		// retries are handled by the shared policy below
		option.WithMaxRetries(0),
	}

	return &AnthropicConnector{
		config: cfg,
		client: anthropic.NewClient(append(opts, extra...)...),
	}
}

func (c *AnthropicConnector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating answer via anthropic", zap.String("model", c.config.Model))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(c.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var answer string
	err := retry.Do(ctx, c.config.Retry, isTransientAnthropic, func(ctx context.Context) error {
		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return err
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		answer = sb.String()
		return nil
	})
	if err != nil {
		ctxzap.Error(ctx, "anthropic request failed", zap.Error(err))
		return "", fmt.Errorf("%w: generate answer: %v", entity.ErrUpstreamService, err)
	}

	return checkAnswer("anthropic", answer)
}

func isTransientAnthropic(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusRequestTimeout ||
			apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
