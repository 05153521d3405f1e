package rag

import "github.com/MuhammadSenna/langchain-milvus-rag/internal/config"

// RAGUsecase runs document ingestion and question answering over a vector store.
type RAGUsecase struct {
	embedder    Embedder
	chat        ChatModel
	store       VectorStore
	splitter    Splitter
	maxResults  int
	threshold   float64
	concurrency int
}

// NewUsecase creates a new RAG use case
func NewUsecase(
	embedder Embedder,
	chat ChatModel,
	store VectorStore,
	splitter Splitter,
	ragCfg config.RAGConfig,
	concurrency int,
) *RAGUsecase {
	if concurrency < 1 {
		concurrency = 1
	}

	return &RAGUsecase{
		embedder:    embedder,
		chat:        chat,
		store:       store,
		splitter:    splitter,
		maxResults:  ragCfg.MaxResults,
		threshold:   ragCfg.SimilarityThreshold,
		concurrency: concurrency,
	}
}
