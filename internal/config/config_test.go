package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv has no matching dotenv file, so only variables set by the test apply.
const testEnv = "config-test-does-not-exist"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(testEnv)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerCfg.Addr)
	assert.Equal(t, ProviderOpenAI, cfg.EmbeddingCfg.Provider)
	assert.Equal(t, "sk-test", cfg.EmbeddingCfg.APIKey)
	assert.Equal(t, "sk-test", cfg.ChatCfg.APIKey)
	assert.Equal(t, 0.7, cfg.ChatCfg.Temperature)
	assert.Equal(t, 60*time.Second, cfg.ChatCfg.RequestTimeout)
	assert.Equal(t, uint(3), cfg.ChatCfg.Retry.Attempts)
	assert.Equal(t, BackendMilvus, cfg.VectorStoreCfg.Backend)
	assert.Equal(t, 1536, cfg.VectorStoreCfg.Dimension)
	assert.Equal(t, "localhost:19530", cfg.MilvusCfg.Address())
	assert.Equal(t, int32(2), cfg.MilvusCfg.Shards)
	assert.Equal(t, 500, cfg.RAGCfg.ChunkSize)
	assert.Equal(t, 50, cfg.RAGCfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.RAGCfg.MaxResults)
	assert.Equal(t, 0.7, cfg.RAGCfg.SimilarityThreshold)
	assert.Equal(t, testEnv, cfg.Environment)
}

func TestLoadConfig_GatewayKeyWinsOverSharedKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-shared")
	t.Setenv("CHAT_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("EMBEDDING_API_KEY", "sk-embed")

	cfg, err := LoadConfig(testEnv)
	require.NoError(t, err)
	assert.Equal(t, "sk-embed", cfg.EmbeddingCfg.APIKey)
	assert.Equal(t, "sk-ant", cfg.ChatCfg.APIKey)
}

func TestLoadConfig_MocksNeedNoKeys(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("VECTOR_STORE_BACKEND", "memory")

	cfg, err := LoadConfig(testEnv)
	require.NoError(t, err)
	assert.True(t, cfg.EnableMocks)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api keys",
			env:     map[string]string{},
			wantErr: "EMBEDDING_API_KEY",
		},
		{
			name:    "overlap not smaller than chunk size",
			env:     map[string]string{"RAG_CHUNK_SIZE": "100", "RAG_CHUNK_OVERLAP": "100"},
			wantErr: "RAG_CHUNK_OVERLAP",
		},
		{
			name:    "threshold out of range",
			env:     map[string]string{"RAG_SIMILARITY_THRESHOLD": "1.5"},
			wantErr: "RAG_SIMILARITY_THRESHOLD",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"VECTOR_STORE_BACKEND": "faiss"},
			wantErr: "VECTOR_STORE_BACKEND",
		},
		{
			name:    "pgvector without database url",
			env:     map[string]string{"VECTOR_STORE_BACKEND": "pgvector"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "dimension mismatch",
			env:     map[string]string{"EMBEDDING_DIMENSIONS": "768"},
			wantErr: "EMBEDDING_DIMENSIONS",
		},
		{
			name:    "unsafe collection name",
			env:     map[string]string{"VECTOR_STORE_COLLECTION": "docs; drop table x"},
			wantErr: "VECTOR_STORE_COLLECTION",
		},
		{
			name:    "zero handler timeout",
			env:     map[string]string{"SERVER_HANDLER_TIMEOUT": "0s"},
			wantErr: "SERVER_HANDLER_TIMEOUT",
		},
		{
			name:    "negative shutdown timeout",
			env:     map[string]string{"SERVER_SHUTDOWN_TIMEOUT": "-1s"},
			wantErr: "SERVER_SHUTDOWN_TIMEOUT",
		},
		{
			name:    "unknown chat provider",
			env:     map[string]string{"CHAT_PROVIDER": "cohere"},
			wantErr: "CHAT_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "sk-test"
			if tt.name == "missing api keys" {
				key = ""
			}
			t.Setenv("OPENAI_API_KEY", key)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(testEnv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
