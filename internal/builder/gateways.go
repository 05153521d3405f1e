package builder

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/integration/embedding"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/integration/llm"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/usecase/rag"
	"go.uber.org/zap"
)

// setupEmbedder picks the embedding gateway (with mock support) and wraps it
// in the cache when a TTL is configured.
func setupEmbedder(ctx context.Context, cfg *config.Config, logger *zap.Logger) (rag.Embedder, error) {
	embCfg := cfg.EmbeddingCfg

	var embedder embedding.Embedder
	switch {
	case cfg.EnableMocks:
		logger.Info("Using mock embedding connector")
		embedder = embedding.NewMockConnector(cfg.VectorStoreCfg.Dimension)
	case embCfg.Provider == config.ProviderOpenAI:
		embedder = embedding.NewConnector(embCfg, logger)
	case embCfg.Provider == config.ProviderGemini:
		gemini, err := embedding.NewGeminiConnector(ctx, embCfg)
		if err != nil {
			return nil, err
		}
		embedder = gemini
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", entity.ErrUnsupportedProvider, embCfg.Provider)
	}

	if embCfg.CacheTTL > 0 {
		logger.Info("Embedding cache enabled", zap.Duration("ttl", embCfg.CacheTTL))
		embedder = embedding.WithCache(embedder, embCfg.Model, embCfg.CacheTTL, embCfg.CacheCleanupInterval)
	}

	return embedder, nil
}

func setupChatModel(ctx context.Context, cfg *config.Config, logger *zap.Logger) (rag.ChatModel, error) {
	chatCfg := cfg.ChatCfg

	switch {
	case cfg.EnableMocks:
		logger.Info("Using mock chat connector")
		return llm.NewMockConnector(), nil
	case chatCfg.Provider == config.ProviderOpenAI:
		return llm.NewConnector(chatCfg, logger), nil
	case chatCfg.Provider == config.ProviderAnthropic:
		return llm.NewAnthropicConnector(chatCfg), nil
	case chatCfg.Provider == config.ProviderGemini:
		gemini, err := llm.NewGeminiConnector(ctx, chatCfg)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	default:
		return nil, fmt.Errorf("%w: chat provider %q", entity.ErrUnsupportedProvider, chatCfg.Provider)
	}
}
