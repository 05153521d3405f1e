package rag

import (
	"context"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type ChatModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type VectorStore interface {
	Insert(ctx context.Context, segments []*entity.Segment) error
	Search(ctx context.Context, vector []float32, topK int, threshold float64) ([]*entity.Segment, error)
}

type Splitter interface {
	Split(text string) ([]string, error)
}
