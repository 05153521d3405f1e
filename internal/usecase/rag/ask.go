package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AskQuestion answers question from the stored segments most similar to it.
// When nothing clears the similarity threshold the chat model is not called.
func (uc *RAGUsecase) AskQuestion(ctx context.Context, question string) (string, error) {
	ctx = logger.WithAction(ctx, "ask_question")
	ctx = logger.AddFields(ctx, zap.String("question", question))

	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	vector, err := uc.embedder.Embed(ctx, question)
	if err != nil {
		ctxzap.Error(ctx, "failed to embed question", zap.Error(err))
		return "", fmt.Errorf("embed question: %w", err)
	}

	segments, err := uc.store.Search(ctx, vector, uc.maxResults, uc.threshold)
	if err != nil {
		ctxzap.Error(ctx, "failed to search segments", zap.Error(err))
		return "", fmt.Errorf("search segments: %w", err)
	}

	if len(segments) == 0 {
		ctxzap.Info(ctx, "no relevant segments found")
		return NoRelevantInformationAnswer, nil
	}

	ctx = logger.AddFields(ctx, zap.Int("segment_count", len(segments)))

	prompt := renderPrompt(buildContext(segments), question)
	answer, err := uc.chat.Generate(ctx, prompt)
	if err != nil {
		ctxzap.Error(ctx, "failed to generate answer", zap.Error(err))
		return "", fmt.Errorf("generate answer: %w", err)
	}

	ctxzap.Info(ctx, "question answered successfully")
	return answer, nil
}
