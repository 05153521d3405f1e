package builder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/api"
	ragapi "github.com/MuhammadSenna/langchain-milvus-rag/internal/api/rag"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/extractor"
	pkglogger "github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/logger"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/splitter"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/validator"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/usecase/rag"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/vectorstore"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"
)

// Components are the long-lived handles shared by the HTTP server and the CLI commands.
type Components struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     vectorstore.Store
	Usecase   *rag.RAGUsecase
	Extractor *extractor.Factory
}

// BuildComponents loads configuration and wires gateways, the vector store and the pipelines.
// The collection is not touched until EnsureReady is called.
func BuildComponents(ctx context.Context, environment string) (*Components, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.Bool("mocks", cfg.EnableMocks),
		zap.String("vector_store", cfg.VectorStoreCfg.Backend),
	)

	if cfg.UniofficeLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UniofficeLicenseKey); err != nil {
			return nil, fmt.Errorf("set unioffice license: %w", err)
		}
	}

	embedder, err := setupEmbedder(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup embedding gateway: %w", err)
	}

	chat, err := setupChatModel(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup chat gateway: %w", err)
	}
	logger.Info("Gateways initialized",
		zap.String("embedding_provider", cfg.EmbeddingCfg.Provider),
		zap.String("chat_provider", cfg.ChatCfg.Provider),
	)

	sp, err := splitter.NewRecursive(cfg.RAGCfg.ChunkSize, cfg.RAGCfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("setup splitter: %w", err)
	}

	store, err := setupVectorStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup vector store: %w", err)
	}

	uc := rag.NewUsecase(embedder, chat, store, sp, cfg.RAGCfg, cfg.EmbeddingCfg.Concurrency)
	logger.Info("Use cases initialized")

	return &Components{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Usecase:   uc,
		Extractor: extractor.NewFactory(),
	}, nil
}

// EnsureReady creates the collection when missing and warms it up.
// Only a failure to create the collection is fatal.
func (c *Components) EnsureReady(ctx context.Context) error {
	ctx = pkglogger.WithAction(ctxzap.ToContext(ctx, c.Logger), "ensure_ready")

	if err := c.Store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection %s: %w", c.Config.VectorStoreCfg.Collection, err)
	}

	if err := c.Store.LoadCollection(ctx); err != nil {
		c.Logger.Warn("Failed to load collection, continuing",
			zap.String("collection", c.Config.VectorStoreCfg.Collection),
			zap.Error(err),
		)
	}

	c.Logger.Info("Vector store ready", zap.String("collection", c.Config.VectorStoreCfg.Collection))
	return nil
}

// Close releases the vector store connection and flushes the logger.
func (c *Components) Close(ctx context.Context) error {
	err := c.Store.Close(ctx)
	_ = c.Logger.Sync()
	return err
}

// Build wires the HTTP server. The process refuses to serve until the collection is ready.
func Build(ctx context.Context, environment string) (*App, error) {
	components, err := BuildComponents(ctx, environment)
	if err != nil {
		return nil, err
	}

	cfg := components.Config
	logger := components.Logger

	if err := components.EnsureReady(ctx); err != nil {
		_ = components.Close(ctx)
		return nil, err
	}

	// Setup API handlers
	requestValidator := validator.New(cfg.FileUploadCfg)
	ragHandler := ragapi.NewHandler(
		components.Usecase,
		components.Extractor,
		requestValidator,
		cfg.FileUploadCfg,
		cfg.ServiceName,
		cfg.ServiceVersion,
	)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(ragHandler, api.RouterConfig{
		CORSOrigins:    cfg.CORSAllowedOrigins,
		HandlerTimeout: cfg.ServerCfg.HandlerTimeout,
		Version:        cfg.ServiceVersion,
	}, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerCfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerCfg.ReadTimeout,
		WriteTimeout: cfg.ServerCfg.WriteTimeout,
		IdleTimeout:  cfg.ServerCfg.IdleTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		components:      components,
		shutdownTimeout: cfg.ServerCfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}
