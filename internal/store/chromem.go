package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"incident-rag/internal/config"
)

const compress = false

// Chromem is the embedded chromem-go backend. A named collection acts as
// the logical namespace for one document's chunks and persists across
// process runs unless in-memory mode is configured.
type Chromem struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromem opens (or creates) the database at cfg.Path and its
// collection.
func NewChromem(cfg *config.StoreConfig) (*Chromem, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, compress)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create/get collection: %v", ErrUnavailable, err)
	}
	return &Chromem{db: db, collection: collection}, nil
}

// Upsert replaces any existing entries with the same ids, then adds the
// batch. chromem has no native upsert, so stale ids are deleted first.
func (s *Chromem) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Metadata:  e.Metadata,
			Embedding: e.Embedding,
		}
	}
	// Ignore the delete result: the ids may simply not be there yet.
	_ = s.collection.Delete(ctx, nil, nil, ids...)

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Query returns up to k nearest neighbors in chromem's similarity order.
// An empty collection yields an empty result, not an error.
func (s *Chromem) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	hits, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			Text:       h.Content,
			Metadata:   h.Metadata,
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

// Count reports how many entries the collection holds.
func (s *Chromem) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}
