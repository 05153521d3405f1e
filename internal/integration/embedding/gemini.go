package embedding

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/integration/common"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiConnector embeds text with the Gemini API.
type GeminiConnector struct {
	config  config.EmbeddingConfig
	client  *genai.Client
	limiter *rate.Limiter
}

func NewGeminiConnector(ctx context.Context, cfg config.EmbeddingConfig) (*GeminiConnector, error) {
	client, err := common.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	c := &GeminiConnector{config: cfg, client: client}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	return c, nil
}

func (c *GeminiConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedCfg *genai.EmbedContentConfig
	if c.config.Dimensions > 0 {
		dims := int32(c.config.Dimensions)
		embedCfg = &genai.EmbedContentConfig{OutputDimensionality: &dims}
	}

	var values []float32
	err := retry.Do(ctx, c.config.Retry, common.IsTransientGemini, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		attemptCtx, cancel := common.AttemptContext(ctx, c.config.RequestTimeout)
		defer cancel()

		resp, err := c.client.Models.EmbedContent(attemptCtx, c.config.Model,
			[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embedCfg)
		if err != nil {
			return err
		}
		if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			values = nil
			return nil
		}
		values = resp.Embeddings[0].Values
		return nil
	})
	if err != nil {
		ctxzap.Error(ctx, "gemini embedding request failed", zap.String("model", c.config.Model), zap.Error(err))
		return nil, fmt.Errorf("%w: embed text: %v", entity.ErrUpstreamService, err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: embedding response has no vector", entity.ErrUpstreamService)
	}

	return values, nil
}
