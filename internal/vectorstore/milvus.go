package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/milvus-io/milvus/client/v2/column"
	milvusentity "github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"go.uber.org/zap"
)

// Collection schema.
const (
	fieldID        = "id"
	fieldEmbedding = "embedding"
	fieldContent   = "content"
	fieldMetadata  = "metadata"

	maxIDLength       = 255
	maxContentLength  = 65535
	maxMetadataLength = 1000
)

// milvusAPI is the subset of the Milvus client the store relies on.
type milvusAPI interface {
	HasCollection(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, dimension int, shards int32) error
	CreateIndex(ctx context.Context, name string, nlist int) error
	LoadCollection(ctx context.Context, name string) error
	Insert(ctx context.Context, name string, dimension int, rows milvusRows) error
	Search(ctx context.Context, name string, vector []float32, topK, nprobe int) ([]searchHit, error)
	Close(ctx context.Context) error
}

type milvusRows struct {
	ids        []string
	embeddings [][]float32
	contents   []string
	metadata   []string
}

type searchHit struct {
	id       string
	score    float32
	content  string
	metadata string
}

// MilvusStore keeps segments in a single Milvus collection indexed with
// IVF_FLAT over cosine similarity.
type MilvusStore struct {
	api        milvusAPI
	collection string
	dimension  int
	shards     int32
	nlist      int
	nprobe     int

	ensureMu sync.Mutex
}

// NewMilvusStore connects to Milvus. The collection itself is created by EnsureCollection.
func NewMilvusStore(ctx context.Context, vsCfg config.VectorStoreConfig, mCfg config.MilvusConfig) (*MilvusStore, error) {
	cli, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  mCfg.Address(),
		Username: mCfg.Username,
		Password: mCfg.Password,
		DBName:   mCfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect to milvus at %s: %v", entity.ErrStorage, mCfg.Address(), err)
	}

	return newMilvusStore(&milvusClient{cli: cli}, vsCfg, mCfg.Shards), nil
}

func newMilvusStore(api milvusAPI, vsCfg config.VectorStoreConfig, shards int32) *MilvusStore {
	return &MilvusStore{
		api:        api,
		collection: vsCfg.Collection,
		dimension:  vsCfg.Dimension,
		shards:     shards,
		nlist:      vsCfg.NList,
		nprobe:     vsCfg.NProbe,
	}
}

// EnsureCollection creates the collection and its vector index when missing.
// An existing collection is left untouched.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("collection", s.collection)))

	exists, err := s.api.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: check collection %s: %v", entity.ErrStorage, s.collection, err)
	}
	if exists {
		ctxzap.Info(ctx, "collection already exists")
		return nil
	}

	if err := s.api.CreateCollection(ctx, s.collection, s.dimension, s.shards); err != nil {
		// Another instance may have won the race.
		if again, herr := s.api.HasCollection(ctx, s.collection); herr == nil && again {
			ctxzap.Info(ctx, "collection created concurrently")
			return nil
		}
		return fmt.Errorf("%w: create collection %s: %v", entity.ErrStorage, s.collection, err)
	}

	if err := s.api.CreateIndex(ctx, s.collection, s.nlist); err != nil {
		return fmt.Errorf("%w: create index on %s: %v", entity.ErrStorage, s.collection, err)
	}

	ctxzap.Info(ctx, "collection created",
		zap.Int("dimension", s.dimension),
		zap.Int32("shards", s.shards),
		zap.Int("nlist", s.nlist),
	)
	return nil
}

func (s *MilvusStore) LoadCollection(ctx context.Context) error {
	if err := s.api.LoadCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("%w: load collection %s: %v", entity.ErrStorage, s.collection, err)
	}

	ctxzap.Info(ctx, "collection loaded", zap.String("collection", s.collection))
	return nil
}

// Insert writes all segments in one column-based request.
func (s *MilvusStore) Insert(ctx context.Context, segments []*entity.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	if err := checkDimensions(segments, s.dimension); err != nil {
		return err
	}

	rows := milvusRows{
		ids:        make([]string, 0, len(segments)),
		embeddings: make([][]float32, 0, len(segments)),
		contents:   make([]string, 0, len(segments)),
		metadata:   make([]string, 0, len(segments)),
	}

	for _, seg := range segments {
		rows.ids = append(rows.ids, seg.ID)
		rows.embeddings = append(rows.embeddings, seg.Embedding)
		rows.contents = append(rows.contents, seg.Content)
		rows.metadata = append(rows.metadata, encodeMetadata(ctx, seg.Metadata))
	}

	if err := s.api.Insert(ctx, s.collection, s.dimension, rows); err != nil {
		return fmt.Errorf("%w: insert %d segments into %s: %v", entity.ErrStorage, len(segments), s.collection, err)
	}

	ctxzap.Debug(ctx, "segments inserted",
		zap.String("collection", s.collection),
		zap.Int("count", len(segments)),
	)
	return nil
}

func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int, threshold float64) ([]*entity.Segment, error) {
	if topK <= 0 {
		return []*entity.Segment{}, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d values, collection expects %d",
			entity.ErrDimensionMismatch, len(vector), s.dimension)
	}

	hits, err := s.api.Search(ctx, s.collection, vector, topK, s.nprobe)
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %v", entity.ErrStorage, s.collection, err)
	}

	segments := make([]*entity.Segment, 0, len(hits))
	for _, h := range hits {
		segments = append(segments, &entity.Segment{
			ID:       h.id,
			Content:  h.content,
			Metadata: decodeMetadata(ctx, h.metadata),
			Score:    float64(h.score),
		})
	}

	kept := applyThreshold(segments, threshold)
	ctxzap.Debug(ctx, "search finished",
		zap.Int("hits", len(hits)),
		zap.Int("above_threshold", len(kept)),
	)
	return kept, nil
}

func (s *MilvusStore) Close(ctx context.Context) error {
	return s.api.Close(ctx)
}

// milvusClient adapts the Milvus v2 SDK to milvusAPI.
type milvusClient struct {
	cli *milvusclient.Client
}

func (m *milvusClient) HasCollection(ctx context.Context, name string) (bool, error) {
	return m.cli.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
}

func (m *milvusClient) CreateCollection(ctx context.Context, name string, dimension int, shards int32) error {
	schema := milvusentity.NewSchema().
		WithName(name).
		WithDescription("RAG document segments").
		WithAutoID(false).
		WithField(milvusentity.NewField().
			WithName(fieldID).
			WithDataType(milvusentity.FieldTypeVarChar).
			WithMaxLength(maxIDLength).
			WithIsPrimaryKey(true).
			WithIsAutoID(false)).
		WithField(milvusentity.NewField().
			WithName(fieldEmbedding).
			WithDataType(milvusentity.FieldTypeFloatVector).
			WithDim(int64(dimension))).
		WithField(milvusentity.NewField().
			WithName(fieldContent).
			WithDataType(milvusentity.FieldTypeVarChar).
			WithMaxLength(maxContentLength)).
		WithField(milvusentity.NewField().
			WithName(fieldMetadata).
			WithDataType(milvusentity.FieldTypeVarChar).
			WithMaxLength(maxMetadataLength))

	return m.cli.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(name, schema).
		WithShardNum(shards).
		WithConsistencyLevel(milvusentity.ClStrong))
}

func (m *milvusClient) CreateIndex(ctx context.Context, name string, nlist int) error {
	task, err := m.cli.CreateIndex(ctx, milvusclient.NewCreateIndexOption(name, fieldEmbedding,
		index.NewIvfFlatIndex(milvusentity.COSINE, nlist)))
	if err != nil {
		return err
	}
	return task.Await(ctx)
}

func (m *milvusClient) LoadCollection(ctx context.Context, name string) error {
	task, err := m.cli.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name))
	if err != nil {
		return err
	}
	return task.Await(ctx)
}

func (m *milvusClient) Insert(ctx context.Context, name string, dimension int, rows milvusRows) error {
	_, err := m.cli.Insert(ctx, milvusclient.NewColumnBasedInsertOption(name).
		WithVarcharColumn(fieldID, rows.ids).
		WithFloatVectorColumn(fieldEmbedding, dimension, rows.embeddings).
		WithVarcharColumn(fieldContent, rows.contents).
		WithVarcharColumn(fieldMetadata, rows.metadata))
	return err
}

func (m *milvusClient) Search(ctx context.Context, name string, vector []float32, topK, nprobe int) ([]searchHit, error) {
	results, err := m.cli.Search(ctx, milvusclient.NewSearchOption(name, topK,
		[]milvusentity.Vector{milvusentity.FloatVector(vector)}).
		WithANNSField(fieldEmbedding).
		WithOutputFields(fieldContent, fieldMetadata).
		WithAnnParam(index.NewIvfAnnParam(nprobe)))
	if err != nil {
		return nil, err
	}

	var hits []searchHit
	for _, rs := range results {
		if rs.Err != nil {
			return nil, rs.Err
		}

		contentCol := rs.GetColumn(fieldContent)
		metadataCol := rs.GetColumn(fieldMetadata)

		for i := 0; i < rs.ResultCount; i++ {
			id, err := rs.IDs.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("read id %d: %w", i, err)
			}

			hit := searchHit{id: id}
			if i < len(rs.Scores) {
				hit.score = rs.Scores[i]
			}
			hit.content = columnString(contentCol, i)
			hit.metadata = columnString(metadataCol, i)
			hits = append(hits, hit)
		}
	}

	return hits, nil
}

func (m *milvusClient) Close(ctx context.Context) error {
	return m.cli.Close(ctx)
}

func columnString(col column.Column, i int) string {
	if col == nil {
		return ""
	}
	v, err := col.GetAsString(i)
	if err != nil {
		return ""
	}
	return v
}
