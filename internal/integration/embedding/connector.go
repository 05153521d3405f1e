package embedding

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

const embeddingsEndpoint = "/embeddings"

// Connector calls an OpenAI compatible /embeddings endpoint.
type Connector struct {
	config    config.EmbeddingConfig
	connector *pkghttp.Connector
}

func NewConnector(cfg config.EmbeddingConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger,
			pkghttp.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
			pkghttp.WithMaxIdleConnsPerHost(cfg.Concurrency),
		),
		config: cfg,
	}
}

// Embed returns the embedding vector of text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &entity.OpenAIEmbeddingRequest{
		Model:      c.config.Model,
		Input:      text,
		Dimensions: c.config.Dimensions,
	}

	var resp entity.OpenAIEmbeddingResponse
	err := retry.Do(ctx, c.config.Retry, pkghttp.IsTransient, func(ctx context.Context) error {
		resp = entity.OpenAIEmbeddingResponse{}
		return c.connector.PostJSON(ctx, embeddingsEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.String("model", c.config.Model), zap.Error(err))
		return nil, fmt.Errorf("%w: embed text: %v", entity.ErrUpstreamService, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: embedding response has no vector", entity.ErrUpstreamService)
	}

	ctxzap.Debug(ctx, "text embedded",
		zap.Int("text_length", len(text)),
		zap.Int("dimension", len(resp.Data[0].Embedding)),
	)

	return resp.Data[0].Embedding, nil
}
