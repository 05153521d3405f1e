package llm

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/integration/common"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiConnector struct {
	config config.ChatConfig
	client *genai.Client
}

func NewGeminiConnector(ctx context.Context, cfg config.ChatConfig) (*GeminiConnector, error) {
	client, err := common.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return &GeminiConnector{config: cfg, client: client}, nil
}

func (c *GeminiConnector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating answer via gemini", zap.String("model", c.config.Model))

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.config.Temperature)),
		MaxOutputTokens: int32(c.config.MaxTokens),
	}

	var answer string
	err := retry.Do(ctx, c.config.Retry, common.IsTransientGemini, func(ctx context.Context) error {
		attemptCtx, cancel := common.AttemptContext(ctx, c.config.RequestTimeout)
		defer cancel()

		resp, err := c.client.Models.GenerateContent(attemptCtx, c.config.Model, genai.Text(prompt), genCfg)
		if err != nil {
			return err
		}
		answer = resp.Text()
		return nil
	})
	if err != nil {
		ctxzap.Error(ctx, "gemini request failed", zap.Error(err))
		return "", fmt.Errorf("%w: generate answer: %v", entity.ErrUpstreamService, err)
	}

	return checkAnswer("gemini", answer)
}
