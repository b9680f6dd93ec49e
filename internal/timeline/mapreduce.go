// Package timeline synthesizes a chronological summary of the whole
// document by two competing strategies: independent-chunk map-reduce and a
// sequential refine fold.
package timeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"incident-rag/internal/chunker"
	"incident-rag/internal/config"
	"incident-rag/internal/document"
	"incident-rag/internal/llmservice"
)

// MapReduce extracts a partial timeline from every chunk independently,
// then merges all partials in one pass. The map phase has no cross-chunk
// state, so it fans out over bounded workers; chunk order matters only when
// the reduce input is assembled.
type MapReduce struct {
	completer llmservice.Completer
	profile   config.Profile
	workers   int
}

// NewMapReduce wires the map-reduce synthesizer.
func NewMapReduce(completer llmservice.Completer, profile config.Profile, workers int) *MapReduce {
	if workers < 1 {
		workers = 1
	}
	return &MapReduce{completer: completer, profile: profile, workers: workers}
}

// Synthesize produces the merged timeline for the document. A failure in
// any map or reduce call aborts the whole synthesis.
func (s *MapReduce) Synthesize(ctx context.Context, doc document.Document) (string, error) {
	chunks := chunker.Split(doc.Text, s.profile)
	if len(chunks) == 0 {
		return "", fmt.Errorf("document %q produced no chunks", doc.Source)
	}
	log.Info().Int("chunks", len(chunks)).Int("workers", s.workers).Msg("Mapping chunks")

	partials := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range chunks {
		g.Go(func() error {
			partial, err := s.completer.Complete(gctx, fmt.Sprintf(extractPrompt, c.Text), 0)
			if err != nil {
				return fmt.Errorf("map step for chunk %d: %w", c.ID, err)
			}
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	log.Info().Msg("Merging partial timelines")
	combined := strings.Join(partials, "\n\n")
	merged, err := s.completer.Complete(ctx, fmt.Sprintf(mergePrompt, combined), 0)
	if err != nil {
		return "", fmt.Errorf("reduce step: %w", err)
	}
	return merged, nil
}
