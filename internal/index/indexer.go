// Package index prepares a document for retrieval: chunk, embed, store.
// This pipeline runs before any query is answered.
package index

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"incident-rag/internal/chunker"
	"incident-rag/internal/config"
	"incident-rag/internal/document"
	"incident-rag/internal/embedding"
	"incident-rag/internal/models"
	"incident-rag/internal/store"
)

// Indexer writes a document's chunks into the vector store. It is the
// store's only writer; one indexing run at a time is assumed.
type Indexer struct {
	embedder embeddings.Embedder
	store    store.VectorStore
	profile  config.Profile
}

// New wires the indexer from its collaborators.
func New(embedder embeddings.Embedder, st store.VectorStore, profile config.Profile) *Indexer {
	return &Indexer{embedder: embedder, store: st, profile: profile}
}

// Index chunks the document with the retrieval profile, embeds all chunks
// in one batch, and upserts them by id. A failed batch writes nothing and
// must be re-run from scratch; there is no partial retry.
func (ix *Indexer) Index(ctx context.Context, doc document.Document) error {
	chunks := chunker.Split(doc.Text, ix.profile)
	if len(chunks) == 0 {
		return fmt.Errorf("document %q produced no chunks", doc.Source)
	}
	for i := range chunks {
		chunks[i].Metadata.DocumentTitle = doc.Title
		chunks[i].Metadata.Source = doc.Source
	}
	log.Info().Int("chunks", len(chunks)).Str("document", doc.Source).Msg("Chunked document")

	vectors, err := embedding.EmbedChunks(ctx, ix.embedder, chunks)
	if err != nil {
		return err
	}
	log.Debug().Int("vectors", len(vectors)).Msg("Created embeddings")

	entries := make([]store.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = store.Entry{
			ID:        c.StoreID(),
			Embedding: vectors[i],
			Text:      c.Text,
			Metadata:  metadataFields(c.Metadata),
		}
	}
	if err := ix.store.Upsert(ctx, entries); err != nil {
		return err
	}
	log.Info().Int("entries", len(entries)).Msg("Stored chunks in vector database")
	return nil
}

func metadataFields(m models.ChunkMetadata) map[string]string {
	return map[string]string{
		"chunk_id":        fmt.Sprintf("%d", m.ChunkID),
		"length":          fmt.Sprintf("%d", m.Length),
		"has_time_marker": fmt.Sprintf("%t", m.HasTimeMarker),
		"times_found":     m.TimesFound,
		"document_title":  m.DocumentTitle,
		"source":          m.Source,
	}
}
