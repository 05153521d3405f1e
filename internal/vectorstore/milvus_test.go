package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMilvus struct {
	exists       bool
	raceOnCreate bool
	createErr    error
	createCalls  int
	indexCalls   int
	indexNList   int
	loadErr      error
	insertErr    error
	inserted     []milvusRows
	hits         []searchHit
	searchNProbe int
	closed       bool
}

func (f *fakeMilvus) HasCollection(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeMilvus) CreateCollection(_ context.Context, _ string, _ int, _ int32) error {
	f.createCalls++
	if f.raceOnCreate {
		f.exists = true
		return errors.New("collection already exists")
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.exists = true
	return nil
}

func (f *fakeMilvus) CreateIndex(_ context.Context, _ string, nlist int) error {
	f.indexCalls++
	f.indexNList = nlist
	return nil
}

func (f *fakeMilvus) LoadCollection(context.Context, string) error {
	return f.loadErr
}

func (f *fakeMilvus) Insert(_ context.Context, _ string, _ int, rows milvusRows) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rows)
	return nil
}

func (f *fakeMilvus) Search(_ context.Context, _ string, _ []float32, topK, nprobe int) ([]searchHit, error) {
	f.searchNProbe = nprobe
	if len(f.hits) > topK {
		return f.hits[:topK], nil
	}
	return f.hits, nil
}

func (f *fakeMilvus) Close(context.Context) error {
	f.closed = true
	return nil
}

func newTestMilvusStore(api *fakeMilvus) *MilvusStore {
	return newMilvusStore(api, config.VectorStoreConfig{
		Collection: "documents",
		Dimension:  2,
		NList:      1024,
		NProbe:     10,
	}, 2)
}

func TestMilvusStore_EnsureCollectionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	api := &fakeMilvus{}
	store := newTestMilvusStore(api)

	require.NoError(t, store.EnsureCollection(ctx))
	require.NoError(t, store.EnsureCollection(ctx))

	assert.Equal(t, 1, api.createCalls)
	assert.Equal(t, 1, api.indexCalls)
	assert.Equal(t, 1024, api.indexNList)
}

func TestMilvusStore_EnsureCollectionFailures(t *testing.T) {
	t.Run("lost creation race is success", func(t *testing.T) {
		api := &fakeMilvus{raceOnCreate: true}
		require.NoError(t, newTestMilvusStore(api).EnsureCollection(context.Background()))
		assert.Equal(t, 0, api.indexCalls)
	})

	t.Run("create failure is a storage error", func(t *testing.T) {
		api := &fakeMilvus{createErr: errors.New("unavailable")}
		err := newTestMilvusStore(api).EnsureCollection(context.Background())
		require.ErrorIs(t, err, entity.ErrStorage)
		assert.Equal(t, 0, api.indexCalls)
	})
}

func TestMilvusStore_LoadCollectionError(t *testing.T) {
	api := &fakeMilvus{loadErr: errors.New("not ready")}
	err := newTestMilvusStore(api).LoadCollection(context.Background())
	require.ErrorIs(t, err, entity.ErrStorage)
}

func TestMilvusStore_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("writes columns in segment order", func(t *testing.T) {
		api := &fakeMilvus{}
		store := newTestMilvusStore(api)

		err := store.Insert(ctx, []*entity.Segment{
			{ID: "a", Content: "first", Embedding: []float32{1, 0}, Metadata: map[string]string{"k": "v"}},
			{ID: "b", Content: "second", Embedding: []float32{0, 1}},
		})
		require.NoError(t, err)
		require.Len(t, api.inserted, 1)

		rows := api.inserted[0]
		assert.Equal(t, []string{"a", "b"}, rows.ids)
		assert.Equal(t, []string{"first", "second"}, rows.contents)
		assert.JSONEq(t, `{"k":"v"}`, rows.metadata[0])
		assert.Equal(t, "{}", rows.metadata[1])
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		api := &fakeMilvus{}
		require.NoError(t, newTestMilvusStore(api).Insert(ctx, nil))
		assert.Empty(t, api.inserted)
	})

	t.Run("dimension mismatch writes nothing", func(t *testing.T) {
		api := &fakeMilvus{}
		err := newTestMilvusStore(api).Insert(ctx, []*entity.Segment{
			{ID: "a", Embedding: []float32{1, 0}},
			{ID: "b", Embedding: []float32{1}},
		})
		require.ErrorIs(t, err, entity.ErrDimensionMismatch)
		assert.Empty(t, api.inserted)
	})

	t.Run("backend failure is a storage error", func(t *testing.T) {
		api := &fakeMilvus{insertErr: errors.New("rpc error")}
		err := newTestMilvusStore(api).Insert(ctx, []*entity.Segment{{ID: "a", Embedding: []float32{1, 0}}})
		require.ErrorIs(t, err, entity.ErrStorage)
	})
}

func TestMilvusStore_Search(t *testing.T) {
	ctx := context.Background()
	api := &fakeMilvus{hits: []searchHit{
		{id: "a", score: 0.95, content: "alpha", metadata: `{"source":"a.txt"}`},
		{id: "b", score: 0.80, content: "beta", metadata: `not json`},
		{id: "c", score: 0.40, content: "gamma", metadata: ``},
	}}
	store := newTestMilvusStore(api)

	got, err := store.Search(ctx, []float32{1, 0}, 5, 0.7)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "alpha", got[0].Content)
	assert.Equal(t, map[string]string{"source": "a.txt"}, got[0].Metadata)
	assert.InDelta(t, 0.95, got[0].Score, 1e-6)

	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, map[string]string{}, got[1].Metadata)
	assert.Nil(t, got[1].Embedding)

	assert.Equal(t, 10, api.searchNProbe)

	_, err = store.Search(ctx, []float32{1, 0, 0}, 5, 0.7)
	require.ErrorIs(t, err, entity.ErrDimensionMismatch)

	none, err := store.Search(ctx, []float32{1, 0}, 0, 0.7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMilvusStore_Close(t *testing.T) {
	api := &fakeMilvus{}
	require.NoError(t, newTestMilvusStore(api).Close(context.Background()))
	assert.True(t, api.closed)
}
