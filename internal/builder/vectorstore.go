package builder

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/vectorstore"
	"go.uber.org/zap"
)

func setupVectorStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (vectorstore.Store, error) {
	vsCfg := cfg.VectorStoreCfg

	switch vsCfg.Backend {
	case config.BackendMilvus:
		store, err := vectorstore.NewMilvusStore(ctx, vsCfg, cfg.MilvusCfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to Milvus", zap.String("address", cfg.MilvusCfg.Address()))
		return store, nil

	case config.BackendPgVector:
		// Run database migrations
		logger.Info("Running database migrations")
		if err := vectorstore.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		return vectorstore.NewPgVectorStore(pool, vsCfg), nil

	case config.BackendMemory:
		logger.Warn("Using in-memory vector store, segments are lost on restart")
		return vectorstore.NewMemoryStore(vsCfg.Dimension), nil

	default:
		return nil, fmt.Errorf("unknown vector store backend %q", vsCfg.Backend)
	}
}
