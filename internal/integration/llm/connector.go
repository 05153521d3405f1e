package llm

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/integration/common"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/retry"
	pkghttp "github.com/MuhammadSenna/langchain-milvus-rag/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const chatCompletionsEndpoint = "/chat/completions"

// Connector calls an OpenAI compatible /chat/completions endpoint.
type Connector struct {
	config    config.ChatConfig
	connector *pkghttp.Connector
}

// NewConnector builds the connector; logger receives transport-level warnings.
func NewConnector(cfg config.ChatConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
	}
}

// Generate sends prompt as a single user message and returns the model's reply verbatim.
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating answer via chat model", zap.String("model", c.config.Model))

	req := &entity.OpenAIChatRequest{
		Model:       c.config.Model,
		Messages:    []entity.OpenAIChatMessage{{Role: "user", Content: prompt}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp entity.OpenAIChatResponse
	err := retry.Do(ctx, c.config.Retry, pkghttp.IsTransient, func(ctx context.Context) error {
		resp = entity.OpenAIChatResponse{}
		return c.connector.PostJSON(ctx, chatCompletionsEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("%w: generate answer: %v", entity.ErrUpstreamService, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat response has no choices", entity.ErrUpstreamService)
	}

	answer, err := checkAnswer("chat completion", resp.Choices[0].Message.Content)
	if err != nil {
		ctxzap.Error(ctx, "chat completion returned no text")
		return "", err
	}
	ctxzap.Info(ctx, "answer generated successfully", zap.Int("answer_length", len(answer)))

	return answer, nil
}
