package api

import (
	"net/http"
	"time"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/api/docs"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/api/middleware"
	ragapi "github.com/MuhammadSenna/langchain-milvus-rag/internal/api/rag"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig carries the router settings taken from configuration.
type RouterConfig struct {
	CORSOrigins    []string
	HandlerTimeout time.Duration
	Version        string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(ragHandler *ragapi.Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	// Bounds the whole ingest or ask pipeline of a request.
	r.Use(chimiddleware.Timeout(cfg.HandlerTimeout))

	// Liveness probe for orchestrators
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r, cfg.Version)

	ragapi.RegisterRoutes(r, ragHandler)

	return r
}
