package rag

import (
	"context"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

type RAGUsecase interface {
	AskQuestion(ctx context.Context, question string) (string, error)
	AddDocument(ctx context.Context, content string, metadata map[string]string) error
	AddDocuments(ctx context.Context, contents []string, metadataList []map[string]string) error
}

type TextExtractor interface {
	Extract(file entity.FileData) (string, error)
}
