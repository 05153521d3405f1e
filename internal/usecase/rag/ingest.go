package rag

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AddDocument splits content into segments, embeds each of them and stores
// the whole document with a single insert. Nothing is written if any
// embedding fails.
func (uc *RAGUsecase) AddDocument(ctx context.Context, content string, metadata map[string]string) error {
	ctx = logger.WithAction(ctx, "add_document")
	ctx = logger.AddFields(ctx, zap.Int("content_length", utf8.RuneCountInString(content)))

	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}

	chunks, err := uc.splitter.Split(content)
	if err != nil {
		ctxzap.Error(ctx, "failed to split document", zap.Error(err))
		return fmt.Errorf("split document: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: content produced no segments", entity.ErrInvalidParameter)
	}

	ctx = logger.AddFields(ctx, zap.Int("segment_count", len(chunks)))
	ctxzap.Debug(ctx, "document split into segments")

	segments, err := uc.embedSegments(ctx, chunks, metadata)
	if err != nil {
		ctxzap.Error(ctx, "failed to embed segments", zap.Error(err))
		return err
	}

	if err := uc.store.Insert(ctx, segments); err != nil {
		ctxzap.Error(ctx, "failed to insert segments", zap.Error(err))
		return fmt.Errorf("insert segments: %w", err)
	}

	ctxzap.Info(ctx, "document added successfully")
	return nil
}

// AddDocuments ingests documents one after another and stops at the first failure.
func (uc *RAGUsecase) AddDocuments(ctx context.Context, contents []string, metadataList []map[string]string) error {
	if len(contents) != len(metadataList) {
		return fmt.Errorf("%w: got %d contents and %d metadata entries",
			entity.ErrInvalidParameter, len(contents), len(metadataList))
	}

	for i := range contents {
		if err := uc.AddDocument(ctx, contents[i], metadataList[i]); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}

	ctxzap.Info(ctx, "documents added successfully", zap.Int("document_count", len(contents)))
	return nil
}

func (uc *RAGUsecase) embedSegments(
	ctx context.Context,
	chunks []string,
	metadata map[string]string,
) ([]*entity.Segment, error) {
	segments := make([]*entity.Segment, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			vector, err := uc.embedder.Embed(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embed segment %d: %w", i, err)
			}

			segments[i] = &entity.Segment{
				ID:        uuid.New().String(),
				Content:   chunk,
				Embedding: vector,
				Metadata:  segmentMetadata(metadata, i, len(chunks), chunk),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

// segmentMetadata copies the caller's metadata and sets the positional keys on top.
func segmentMetadata(base map[string]string, index, total int, chunk string) map[string]string {
	md := make(map[string]string, len(base)+3)
	maps.Copy(md, base)
	md[entity.MetadataSegmentIndex] = strconv.Itoa(index)
	md[entity.MetadataTotalSegments] = strconv.Itoa(total)
	md[entity.MetadataContentLength] = strconv.Itoa(utf8.RuneCountInString(chunk))
	return md
}
