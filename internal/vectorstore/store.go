// Package vectorstore keeps embedded document segments and runs
// similarity search over them. Milvus is the primary backend; pgvector
// and an in-process store share the same contract.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

// Store is implemented by every backend.
//
// Search returns at most topK segments ordered by descending score, drops
// those scoring below threshold and never fills Segment.Embedding.
type Store interface {
	EnsureCollection(ctx context.Context) error
	LoadCollection(ctx context.Context) error
	Insert(ctx context.Context, segments []*entity.Segment) error
	Search(ctx context.Context, vector []float32, topK int, threshold float64) ([]*entity.Segment, error)
	Close(ctx context.Context) error
}

func checkDimensions(segments []*entity.Segment, dimension int) error {
	for i, s := range segments {
		if len(s.Embedding) != dimension {
			return fmt.Errorf("%w: segment %d has %d values, collection expects %d",
				entity.ErrDimensionMismatch, i, len(s.Embedding), dimension)
		}
	}
	return nil
}

// applyThreshold keeps the backend's ordering.
func applyThreshold(segments []*entity.Segment, threshold float64) []*entity.Segment {
	kept := make([]*entity.Segment, 0, len(segments))
	for _, s := range segments {
		if s.Score >= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}
