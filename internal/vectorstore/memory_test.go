package vectorstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *MemoryStore) {
	t.Helper()
	n, err := s.Upsert(context.Background(), []Entry{
		{ID: "a", Vector: []float32{1, 0, 0}, Text: "alpha", Metadata: map[string]any{"page": 0}},
		{ID: "b", Vector: []float32{0.9, 0.1, 0}, Text: "beta", Metadata: map[string]any{"page": 1}},
		{ID: "c", Vector: []float32{0, 1, 0}, Text: "gamma", Metadata: map[string]any{"page": 2}},
		{ID: "d", Vector: []float32{0, 0, 1}, Text: "delta", Metadata: map[string]any{"page": 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestMemoryStoreQueryRanksByCosine(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)

	matches, err := s.Query(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "alpha", matches[0].Text)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "b", matches[1].ID)
	assert.GreaterOrEqual(t, matches[1].Score, matches[2].Score)
}

func TestMemoryStoreQueryIsDeterministic(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)

	q := []float32{0.3, 0.3, 0.3}
	first, err := s.Query(context.Background(), q, 3)
	require.NoError(t, err)
	second, err := s.Query(context.Background(), q, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMemoryStoreEmptyQuery(t *testing.T) {
	s := NewMemoryStore()

	matches, err := s.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = s.Query(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Nil(t, matches)
}

func TestMemoryStoreUpsertReplacesByID(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)

	_, err := s.Upsert(context.Background(), []Entry{{ID: "a", Vector: []float32{0, 0, 1}, Text: "alpha2"}})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	matches, err := s.Query(context.Background(), []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	// "a" and "d" now tie; insertion order wins.
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "alpha2", matches[0].Text)
}

func TestMemoryStoreRejectsEmptyVector(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Upsert(context.Background(), []Entry{{ID: "x"}})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestBatches(t *testing.T) {
	entries := make([]Entry, 250)
	for i := range entries {
		entries[i].ID = fmt.Sprint(i)
	}

	got := batches(entries, MaxUpsertBatch)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 100)
	assert.Len(t, got[1], 100)
	assert.Len(t, got[2], 50)
	assert.Equal(t, "249", got[2][49].ID)

	assert.Empty(t, batches(nil, MaxUpsertBatch))
}

func TestCosineMismatchedDims(t *testing.T) {
	assert.Zero(t, cosine([]float32{1, 2}, []float32{1}))
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 1}))
}
