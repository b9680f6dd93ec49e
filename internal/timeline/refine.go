package timeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"incident-rag/internal/chunker"
	"incident-rag/internal/config"
	"incident-rag/internal/document"
	"incident-rag/internal/llmservice"
)

// Refine folds each chunk, in document order, into a running timeline
// accumulator. Every step consumes the previous step's output, so this
// strategy is strictly sequential and must never be parallelized. Later
// chunks can rewrite earlier conclusions, which makes the result sensitive
// to chunk order.
type Refine struct {
	completer llmservice.Completer
	profile   config.Profile
}

// NewRefine wires the refine synthesizer.
func NewRefine(completer llmservice.Completer, profile config.Profile) *Refine {
	return &Refine{completer: completer, profile: profile}
}

// Synthesize seeds the accumulator with the extraction prompt on the first
// chunk, then refines it with each subsequent chunk. Any step failure
// aborts the synthesis.
func (s *Refine) Synthesize(ctx context.Context, doc document.Document) (string, error) {
	chunks := chunker.Split(doc.Text, s.profile)
	if len(chunks) == 0 {
		return "", fmt.Errorf("document %q produced no chunks", doc.Source)
	}
	log.Info().Int("chunks", len(chunks)).Msg("Refining timeline")

	timeline, err := s.completer.Complete(ctx, fmt.Sprintf(extractPrompt, chunks[0].Text), 0)
	if err != nil {
		return "", fmt.Errorf("initial extraction: %w", err)
	}

	for _, c := range chunks[1:] {
		timeline, err = s.completer.Complete(ctx, fmt.Sprintf(refinePrompt, timeline, c.Text), 0)
		if err != nil {
			return "", fmt.Errorf("refine step for chunk %d: %w", c.ID, err)
		}
	}
	return timeline, nil
}
