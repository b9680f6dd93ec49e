// Package retrieve answers similarity queries against the indexed chunks.
package retrieve

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"incident-rag/internal/models"
	"incident-rag/internal/store"
)

// Retriever embeds a query with the same embedder used for indexing and
// fetches the top-k nearest chunks. Results keep the store's similarity
// order; no local re-ranking is applied.
type Retriever struct {
	embedder embeddings.Embedder
	store    store.VectorStore
}

// New wires the retriever from its collaborators.
func New(embedder embeddings.Embedder, st store.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: st}
}

// Retrieve returns up to topK chunks ranked by descending similarity to the
// query. An empty or unavailable store yields an empty result and no error:
// callers must treat that as "no evidence", not as a fault. A failed query
// embedding is a real error and is returned.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievedChunk, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.store.Query(ctx, queryEmbedding, topK)
	if err != nil {
		log.Warn().Err(err).Msg("Vector store query failed, treating as no evidence")
		return nil, nil
	}

	chunks := make([]models.RetrievedChunk, len(hits))
	for i, h := range hits {
		chunks[i] = models.RetrievedChunk{
			Text:       h.Text,
			Metadata:   h.Metadata,
			Similarity: h.Similarity,
		}
	}
	log.Debug().Int("chunks", len(chunks)).Str("query", query).Msg("Retrieved chunks")
	return chunks, nil
}
