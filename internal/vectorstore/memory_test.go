package vectorstore

import (
	"context"
	"testing"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(id string, vec ...float32) *entity.Segment {
	return &entity.Segment{
		ID:        id,
		Content:   "content " + id,
		Embedding: vec,
		Metadata:  map[string]string{"id": id},
	}
}

func TestMemoryStore_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)
	require.NoError(t, store.EnsureCollection(ctx))

	require.NoError(t, store.Insert(ctx, []*entity.Segment{
		seg("x", 1, 0),
		seg("y", 0, 1),
		seg("xy", 1, 1),
	}))
	assert.Equal(t, 3, store.Len())

	t.Run("orders by descending score", func(t *testing.T) {
		got, err := store.Search(ctx, []float32{1, 0}, 3, -1)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"x", "xy", "y"}, []string{got[0].ID, got[1].ID, got[2].ID})
		assert.InDelta(t, 1.0, got[0].Score, 1e-9)
		for _, s := range got {
			assert.Nil(t, s.Embedding)
		}
	})

	t.Run("applies threshold after top k", func(t *testing.T) {
		got, err := store.Search(ctx, []float32{1, 0}, 3, 0.5)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, s := range got {
			assert.GreaterOrEqual(t, s.Score, 0.5)
		}
	})

	t.Run("top k bounds result size", func(t *testing.T) {
		got, err := store.Search(ctx, []float32{0, 1}, 1, -1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "y", got[0].ID)
	})

	t.Run("threshold above every score yields empty", func(t *testing.T) {
		got, err := store.Search(ctx, []float32{1, 0}, 3, 1.01)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("metadata round trips", func(t *testing.T) {
		got, err := store.Search(ctx, []float32{1, 0}, 1, -1)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"id": "x"}, got[0].Metadata)
	})
}

func TestMemoryStore_InsertIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	err := store.Insert(ctx, []*entity.Segment{seg("ok", 1, 0), seg("bad", 1, 0, 0)})
	require.ErrorIs(t, err, entity.ErrDimensionMismatch)
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Insert(ctx, nil))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_EmptySearch(t *testing.T) {
	got, err := NewMemoryStore(2).Search(context.Background(), []float32{1, 0}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_SearchRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)
	require.NoError(t, store.Insert(ctx, []*entity.Segment{seg("a", 1, 0)}))

	_, err := store.Search(ctx, []float32{1, 0, 0}, 5, 0)
	require.ErrorIs(t, err, entity.ErrDimensionMismatch)

	_, err = store.Search(ctx, []float32{1}, 5, 0)
	require.ErrorIs(t, err, entity.ErrDimensionMismatch)
}
