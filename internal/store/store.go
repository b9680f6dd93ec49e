// Package store holds the vector similarity stores. Two backends exist
// behind one interface: the embedded chromem-go database (default) and a
// Postgres/pgvector table. The Indexer is the sole writer; readers may
// query concurrently without coordination.
package store

import (
	"context"
	"errors"
	"fmt"

	"incident-rag/internal/config"
)

var (
	// ErrUnavailable signals a store connection or query failure.
	ErrUnavailable = errors.New("vector store unavailable")
	// ErrWrite signals a failed store write during indexing.
	ErrWrite = errors.New("vector store write failed")
)

// Entry is one write-once-per-id record: the chunk id, its embedding, the
// chunk text, and the chunk metadata.
type Entry struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  map[string]string
}

// Result is one nearest-neighbor hit, in the store's similarity order.
type Result struct {
	Text       string
	Metadata   map[string]string
	Similarity float32
}

// VectorStore is the keyed collection the indexer writes and the retriever
// queries. Upsert replaces any entry already stored under the same id;
// re-running an indexing pass is safe.
type VectorStore interface {
	Upsert(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)
	Count(ctx context.Context) (int, error)
}

// Open builds the configured backend.
func Open(cfg *config.StoreConfig) (VectorStore, error) {
	switch cfg.Backend {
	case "", "chromem":
		return NewChromem(cfg)
	case "pgvector":
		return NewPgVector(cfg)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
