package vectorstore

import (
	"context"
	"fmt"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// PgVectorStore keeps segments in a Postgres table with an ivfflat index.
// The vector extension must exist, see RunMigrations.
type PgVectorStore struct {
	pool      *pgxpool.Pool
	table     string
	indexName string
	dimension int
	nlist     int
	nprobe    int
}

func NewPgVectorStore(pool *pgxpool.Pool, cfg config.VectorStoreConfig) *PgVectorStore {
	return &PgVectorStore{
		pool:      pool,
		table:     pgx.Identifier{cfg.Collection}.Sanitize(),
		indexName: pgx.Identifier{cfg.Collection + "_embedding_idx"}.Sanitize(),
		dimension: cfg.Dimension,
		nlist:     cfg.NList,
		nprobe:    cfg.NProbe,
	}
}

func (s *PgVectorStore) EnsureCollection(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        VARCHAR(%d) PRIMARY KEY,
			embedding VECTOR(%d) NOT NULL,
			content   TEXT NOT NULL,
			metadata  VARCHAR(%d) NOT NULL DEFAULT '{}'
		)`, s.table, maxIDLength, s.dimension, maxMetadataLength)

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s ON %s
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d)`,
		s.indexName, s.table, s.nlist)

	for _, stmt := range []string{createTable, createIndex} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: ensure table %s: %v", entity.ErrStorage, s.table, err)
		}
	}

	ctxzap.Info(ctx, "pgvector table ready",
		zap.String("table", s.table),
		zap.Int("dimension", s.dimension),
		zap.Int("lists", s.nlist),
	)
	return nil
}

// LoadCollection refreshes planner statistics so the ivfflat index is used.
func (s *PgVectorStore) LoadCollection(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %v", entity.ErrStorage, err)
	}
	if _, err := s.pool.Exec(ctx, "ANALYZE "+s.table); err != nil {
		return fmt.Errorf("%w: analyze %s: %v", entity.ErrStorage, s.table, err)
	}
	return nil
}

// Insert writes all segments in a single transaction.
func (s *PgVectorStore) Insert(ctx context.Context, segments []*entity.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	if err := checkDimensions(segments, s.dimension); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, embedding, content, metadata) VALUES ($1, $2, $3, $4)`, s.table)

	batch := &pgx.Batch{}
	for _, seg := range segments {
		batch.Queue(query, seg.ID, pgvector.NewVector(seg.Embedding), seg.Content, encodeMetadata(ctx, seg.Metadata))
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("%w: insert %d segments into %s: %v", entity.ErrStorage, len(segments), s.table, err)
	}

	ctxzap.Debug(ctx, "segments inserted", zap.String("table", s.table), zap.Int("count", len(segments)))
	return nil
}

func (s *PgVectorStore) Search(ctx context.Context, vector []float32, topK int, threshold float64) ([]*entity.Segment, error) {
	if topK <= 0 {
		return []*entity.Segment{}, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d values, table expects %d",
			entity.ErrDimensionMismatch, len(vector), s.dimension)
	}

	query := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`, s.table)

	var segments []*entity.Segment
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL ivfflat.probes = %d", s.nprobe)); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, query, pgvector.NewVector(vector), topK)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				seg      entity.Segment
				metadata string
			)
			if err := rows.Scan(&seg.ID, &seg.Content, &metadata, &seg.Score); err != nil {
				return err
			}
			seg.Metadata = decodeMetadata(ctx, metadata)
			segments = append(segments, &seg)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %v", entity.ErrStorage, s.table, err)
	}

	return applyThreshold(segments, threshold), nil
}

func (s *PgVectorStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}
