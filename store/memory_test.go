package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/types"
)

func rec(uid string, embedding []float32) types.IndexedRecord {
	return types.IndexedRecord{
		UID:       uid,
		Content:   "content of " + uid,
		Metadata:  map[string]string{types.MetaChunkUID: uid},
		Embedding: embedding,
	}
}

func TestMemoryStoreNearestOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, []types.IndexedRecord{
		rec("far", []float32{-1, 0}),
		rec("near", []float32{1, 0}),
		rec("mid", []float32{0, 1}),
	}))

	hits, err := s.Nearest(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "near", hits[0].ID)
	assert.Equal(t, "mid", hits[1].ID)
	assert.Equal(t, "far", hits[2].ID)

	require.NotNil(t, hits[0].Distance)
	assert.InDelta(t, 0.0, *hits[0].Distance, 1e-6)
	assert.InDelta(t, 1.0, *hits[1].Distance, 1e-6)
	assert.InDelta(t, 2.0, *hits[2].Distance, 1e-6)
}

func TestMemoryStoreTopKTruncation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, []types.IndexedRecord{
		rec("a", []float32{1, 0}),
		rec("b", []float32{0, 1}),
		rec("c", []float32{-1, 0}),
	}))

	hits, err := s.Nearest(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	// smaller corpus than topK returns everything
	hits, err = s.Nearest(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestMemoryStoreUpsertOverwritesByUID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, []types.IndexedRecord{rec("a", []float32{1, 0})}))

	updated := rec("a", []float32{0, 1})
	updated.Content = "updated content"
	require.NoError(t, s.Upsert(ctx, []types.IndexedRecord{updated}))

	hits, err := s.Nearest(ctx, []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "updated content", hits[0].Content)
	assert.InDelta(t, 0.0, *hits[0].Distance, 1e-6)
}
