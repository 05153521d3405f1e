package builder

import (
	"testing"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"go.uber.org/zap"
)

func loadTestConfig(t *testing.T) (*config.Config, error) {
	t.Helper()
	return config.LoadConfig(testEnv)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
