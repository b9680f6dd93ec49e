package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-rag/internal/store"
)

type mockEmbedder struct {
	queryErr error
}

func (m *mockEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return []float32{1, 0}, nil
}

type mockStore struct {
	hits     []store.Result
	queryErr error
	queries  int
}

func (m *mockStore) Upsert(_ context.Context, _ []store.Entry) error { return nil }

func (m *mockStore) Query(_ context.Context, _ []float32, k int) ([]store.Result, error) {
	m.queries++
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockStore) Count(_ context.Context) (int, error) { return len(m.hits), nil }

func TestRetrieveKeepsStoreOrder(t *testing.T) {
	st := &mockStore{hits: []store.Result{
		{Text: "chunk about 3:11 AM", Similarity: 0.92},
		{Text: "chunk about the AV console", Similarity: 0.85},
		{Text: "chunk about the subnet", Similarity: 0.71},
	}}
	r := New(&mockEmbedder{}, st)

	chunks, err := r.Retrieve(context.Background(), "what happened at 3:11 AM?", 3)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "chunk about 3:11 AM", chunks[0].Text)
	assert.Equal(t, "chunk about the subnet", chunks[2].Text)
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	st := &mockStore{hits: []store.Result{{Text: "a"}, {Text: "b"}, {Text: "c"}}}
	chunks, err := New(&mockEmbedder{}, st).Retrieve(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestRetrieveIsDeterministic(t *testing.T) {
	st := &mockStore{hits: []store.Result{{Text: "a"}, {Text: "b"}}}
	r := New(&mockEmbedder{}, st)

	first, err := r.Retrieve(context.Background(), "q", 2)
	require.NoError(t, err)
	second, err := r.Retrieve(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRetrieveEmptyStoreIsNoEvidence(t *testing.T) {
	chunks, err := New(&mockEmbedder{}, &mockStore{}).Retrieve(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieveUnavailableStoreIsNoEvidence(t *testing.T) {
	st := &mockStore{queryErr: store.ErrUnavailable}
	chunks, err := New(&mockEmbedder{}, st).Retrieve(context.Background(), "q", 3)
	require.NoError(t, err, "an unreachable store is no evidence, not a fault")
	assert.Empty(t, chunks)
}

func TestRetrieveQueryEmbeddingFailure(t *testing.T) {
	emb := &mockEmbedder{queryErr: errors.New("embedding service down")}
	st := &mockStore{}
	_, err := New(emb, st).Retrieve(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Zero(t, st.queries, "no store query without a query embedding")
}
