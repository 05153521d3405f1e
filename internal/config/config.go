package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	pkgRetry "github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Provider and backend names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	BackendMilvus   = "milvus"
	BackendPgVector = "pgvector"
	BackendMemory   = "memory"
)

var collectionNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerCfg ServerConfig `envPrefix:"SERVER_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	ServiceName        string   `env:"SERVICE_NAME" envDefault:"RAG Application"`
	ServiceVersion     string   `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Shared provider keys, used when a gateway has no key of its own
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Database configuration (pgvector backend)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	EmbeddingCfg EmbeddingConfig `envPrefix:"EMBEDDING_"`
	ChatCfg      ChatConfig      `envPrefix:"CHAT_"`

	// Vector store configuration
	VectorStoreCfg VectorStoreConfig `envPrefix:"VECTOR_STORE_"`
	MilvusCfg      MilvusConfig      `envPrefix:"MILVUS_"`

	// Pipeline configuration
	RAGCfg RAGConfig `envPrefix:"RAG_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	UniofficeLicenseKey string `env:"UNIOFFICE_LICENSE_KEY"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"5m"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	HandlerTimeout  time.Duration `env:"HANDLER_TIMEOUT" envDefault:"4m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	APIKey                string        `env:"API_KEY"`
	AuthHeader            string        `env:"AUTH_HEADER" envDefault:"Authorization"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.openai.com/v1"`
}

type EmbeddingConfig struct {
	HTTPClientConfig
	Provider             string               `env:"PROVIDER" envDefault:"openai"`
	Model                string               `env:"MODEL" envDefault:"text-embedding-ada-002"`
	Dimensions           int                  `env:"DIMENSIONS" envDefault:"0"`
	Concurrency          int                  `env:"CONCURRENCY" envDefault:"4"`
	CacheTTL             time.Duration        `env:"CACHE_TTL" envDefault:"0s"`
	CacheCleanupInterval time.Duration        `env:"CACHE_CLEANUP_INTERVAL" envDefault:"10m"`
	RateLimit            float64              `env:"RATE_LIMIT" envDefault:"0"`
	RateBurst            int                  `env:"RATE_BURST" envDefault:"1"`
	Retry                pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type ChatConfig struct {
	HTTPClientConfig
	Provider    string               `env:"PROVIDER" envDefault:"openai"`
	Model       string               `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	Temperature float64              `env:"TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int                  `env:"MAX_TOKENS" envDefault:"1024"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type VectorStoreConfig struct {
	Backend    string `env:"BACKEND" envDefault:"milvus"`
	Collection string `env:"COLLECTION" envDefault:"documents"`
	Dimension  int    `env:"DIMENSION" envDefault:"1536"`
	NList      int    `env:"NLIST" envDefault:"1024"`
	NProbe     int    `env:"NPROBE" envDefault:"10"`
}

type MilvusConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"19530"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	DBName   string `env:"DB_NAME"`
	Shards   int32  `env:"SHARDS" envDefault:"2"`
}

// Address returns the host:port pair of the Milvus proxy.
func (c MilvusConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type RAGConfig struct {
	ChunkSize           int     `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap        int     `env:"CHUNK_OVERLAP" envDefault:"50"`
	MaxResults          int     `env:"MAX_RESULTS" envDefault:"5"`
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.7"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"5242880"`    // 5 MiB
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE" envDefault:"26214400"`  // 25 MiB
	MaxFileCount  int   `env:"MAX_FILE_COUNT" envDefault:"16"`        // Max 16 files
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

// LoadConfig reads .env.<environment> when present and parses the process environment.
func LoadConfig(environment string) (*Config, error) {
	if environment == "" {
		environment = "local"
	}

	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	resolveAPIKeys(cfg)

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func resolveAPIKeys(cfg *Config) {
	shared := map[string]string{
		ProviderOpenAI:    cfg.OpenAIAPIKey,
		ProviderGemini:    cfg.GeminiAPIKey,
		ProviderAnthropic: cfg.AnthropicAPIKey,
	}

	if cfg.EmbeddingCfg.APIKey == "" {
		cfg.EmbeddingCfg.APIKey = shared[cfg.EmbeddingCfg.Provider]
	}
	if cfg.ChatCfg.APIKey == "" {
		cfg.ChatCfg.APIKey = shared[cfg.ChatCfg.Provider]
	}
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerCfg.Addr == "" {
		errors = append(errors, "SERVER_ADDR must not be empty")
	}

	if cfg.ServerCfg.HandlerTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("SERVER_HANDLER_TIMEOUT must be positive, got %s", cfg.ServerCfg.HandlerTimeout))
	}

	if cfg.ServerCfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ServerCfg.ShutdownTimeout))
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	// Validate providers
	switch cfg.EmbeddingCfg.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errors = append(errors, fmt.Sprintf("EMBEDDING_PROVIDER must be openai or gemini, got %q", cfg.EmbeddingCfg.Provider))
	}

	switch cfg.ChatCfg.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		errors = append(errors, fmt.Sprintf("CHAT_PROVIDER must be openai, anthropic or gemini, got %q", cfg.ChatCfg.Provider))
	}

	if !cfg.EnableMocks {
		if cfg.EmbeddingCfg.APIKey == "" {
			errors = append(errors, "EMBEDDING_API_KEY (or the provider's shared key) is required")
		}
		if cfg.ChatCfg.APIKey == "" {
			errors = append(errors, "CHAT_API_KEY (or the provider's shared key) is required")
		}
	}

	if cfg.ChatCfg.Temperature < 0 || cfg.ChatCfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("CHAT_TEMPERATURE must be between 0 and 2, got %g", cfg.ChatCfg.Temperature))
	}

	if cfg.ChatCfg.MaxTokens < 1 {
		errors = append(errors, fmt.Sprintf("CHAT_MAX_TOKENS must be positive, got %d", cfg.ChatCfg.MaxTokens))
	}

	if cfg.EmbeddingCfg.Concurrency < 1 || cfg.EmbeddingCfg.Concurrency > 64 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_CONCURRENCY must be between 1 and 64, got %d", cfg.EmbeddingCfg.Concurrency))
	}

	if cfg.EmbeddingCfg.RateLimit < 0 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_RATE_LIMIT must not be negative, got %g", cfg.EmbeddingCfg.RateLimit))
	}

	// Validate vector store configuration
	vs := cfg.VectorStoreCfg
	switch vs.Backend {
	case BackendMilvus:
		if cfg.MilvusCfg.Shards < 1 || cfg.MilvusCfg.Shards > 16 {
			errors = append(errors, fmt.Sprintf("MILVUS_SHARDS must be between 1 and 16, got %d", cfg.MilvusCfg.Shards))
		}
	case BackendPgVector:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required for the pgvector backend")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	case BackendMemory:
	default:
		errors = append(errors, fmt.Sprintf("VECTOR_STORE_BACKEND must be milvus, pgvector or memory, got %q", vs.Backend))
	}

	if !collectionNameRe.MatchString(vs.Collection) {
		errors = append(errors, fmt.Sprintf("VECTOR_STORE_COLLECTION must be a plain identifier, got %q", vs.Collection))
	}

	if vs.Dimension < 1 || vs.Dimension > 32768 {
		errors = append(errors, fmt.Sprintf("VECTOR_STORE_DIMENSION must be between 1 and 32768, got %d", vs.Dimension))
	}

	if cfg.EmbeddingCfg.Dimensions != 0 && cfg.EmbeddingCfg.Dimensions != vs.Dimension {
		errors = append(errors, fmt.Sprintf("EMBEDDING_DIMENSIONS(%d) must match VECTOR_STORE_DIMENSION(%d)", cfg.EmbeddingCfg.Dimensions, vs.Dimension))
	}

	if vs.NList < 1 || vs.NList > 65536 {
		errors = append(errors, fmt.Sprintf("VECTOR_STORE_NLIST must be between 1 and 65536, got %d", vs.NList))
	}

	if vs.NProbe < 1 || vs.NProbe > vs.NList {
		errors = append(errors, fmt.Sprintf("VECTOR_STORE_NPROBE must be between 1 and VECTOR_STORE_NLIST(%d), got %d", vs.NList, vs.NProbe))
	}

	// Validate pipeline configuration
	rag := cfg.RAGCfg
	if rag.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_SIZE must be positive, got %d", rag.ChunkSize))
	}

	if rag.ChunkOverlap < 0 || rag.ChunkOverlap >= rag.ChunkSize {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_OVERLAP must be between 0 and RAG_CHUNK_SIZE(%d) exclusive, got %d", rag.ChunkSize, rag.ChunkOverlap))
	}

	if rag.MaxResults < 1 || rag.MaxResults > 16384 {
		errors = append(errors, fmt.Sprintf("RAG_MAX_RESULTS must be between 1 and 16384, got %d", rag.MaxResults))
	}

	if rag.SimilarityThreshold < -1 || rag.SimilarityThreshold > 1 {
		errors = append(errors, fmt.Sprintf("RAG_SIMILARITY_THRESHOLD must be between -1 and 1, got %g", rag.SimilarityThreshold))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
