package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbedder memoizes vectors of recently embedded texts.
type CachedEmbedder struct {
	next  Embedder
	model string
	cache *cache.Cache
}

// WithCache wraps next with a TTL cache. A non-positive ttl returns next unchanged.
func WithCache(next Embedder, model string, ttl, cleanupInterval time.Duration) Embedder {
	if next == nil || ttl <= 0 {
		return next
	}

	return &CachedEmbedder{
		next:  next,
		model: model,
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)
	if cached, ok := c.cache.Get(key); ok {
		ctxzap.Debug(ctx, "embedding cache hit")
		return slices.Clone(cached.([]float32)), nil
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, slices.Clone(vec), cache.DefaultExpiration)
	return vec, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
