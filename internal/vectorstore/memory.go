package vectorstore

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MemoryStore is a brute-force cosine store living in process memory.
// Used in mock mode and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	segments  []*entity.Segment
}

func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

func (s *MemoryStore) EnsureCollection(ctx context.Context) error {
	ctxzap.Debug(ctx, "in-memory collection ready", zap.Int("dimension", s.dimension))
	return nil
}

func (s *MemoryStore) LoadCollection(context.Context) error {
	return nil
}

func (s *MemoryStore) Insert(ctx context.Context, segments []*entity.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	if err := checkDimensions(segments, s.dimension); err != nil {
		return err
	}

	stored := make([]*entity.Segment, 0, len(segments))
	for _, seg := range segments {
		stored = append(stored, &entity.Segment{
			ID:        seg.ID,
			Content:   seg.Content,
			Embedding: slices.Clone(seg.Embedding),
			Metadata:  decodeMetadata(ctx, encodeMetadata(ctx, seg.Metadata)),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append(s.segments, stored...)
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float32, topK int, threshold float64) ([]*entity.Segment, error) {
	if topK <= 0 {
		return []*entity.Segment{}, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d values, collection expects %d",
			entity.ErrDimensionMismatch, len(vector), s.dimension)
	}

	s.mu.RLock()
	scored := make([]*entity.Segment, 0, len(s.segments))
	for _, seg := range s.segments {
		scored = append(scored, &entity.Segment{
			ID:       seg.ID,
			Content:  seg.Content,
			Metadata: maps.Clone(seg.Metadata),
			Score:    cosine(seg.Embedding, vector),
		})
	}
	s.mu.RUnlock()

	slices.SortStableFunc(scored, func(a, b *entity.Segment) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return applyThreshold(scored, threshold), nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

// Len reports the number of stored segments.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.segments)
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
