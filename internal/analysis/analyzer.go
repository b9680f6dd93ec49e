// Package analysis ties the pipelines together: it routes a free-text
// question to the QA path or to full-document timeline synthesis.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"incident-rag/internal/document"
	"incident-rag/internal/normalize"
	"incident-rag/internal/rag"
	"incident-rag/internal/router"
	"incident-rag/internal/timeline"
)

// Synthesizer is implemented by both timeline strategies.
type Synthesizer interface {
	Synthesize(ctx context.Context, doc document.Document) (string, error)
}

// Analyzer dispatches questions. A TIMELINE question runs both synthesis
// strategies over the whole document so the outputs can be compared; a QA
// question runs retrieval-grounded generation.
type Analyzer struct {
	router    *router.Router
	qa        *rag.Pipeline
	mapReduce Synthesizer
	refine    Synthesizer
	saver     *timeline.Saver
}

// New wires the analyzer from its collaborators.
func New(rt *router.Router, qa *rag.Pipeline, mapReduce, refine Synthesizer, saver *timeline.Saver) *Analyzer {
	return &Analyzer{router: rt, qa: qa, mapReduce: mapReduce, refine: refine, saver: saver}
}

// Handle classifies the question and runs the selected path. The document
// is only consulted on the timeline path; the QA path answers from the
// vector store.
func (a *Analyzer) Handle(ctx context.Context, question string, doc document.Document) (string, error) {
	label := a.router.Classify(ctx, question)
	log.Info().Str("label", string(label)).Str("question", question).Msg("Routed question")

	if label == router.LabelTimeline {
		return a.synthesizeTimelines(ctx, doc)
	}

	answer, err := a.qa.Answer(ctx, question)
	if err != nil {
		return "", err
	}
	return answer.Content, nil
}

func (a *Analyzer) synthesizeTimelines(ctx context.Context, doc document.Document) (string, error) {
	var report strings.Builder

	for _, run := range []struct {
		method string
		s      Synthesizer
	}{
		{"map_reduce", a.mapReduce},
		{"refine", a.refine},
	} {
		raw, err := run.s.Synthesize(ctx, doc)
		if err != nil {
			return "", fmt.Errorf("%s synthesis failed: %w", run.method, err)
		}
		cleaned := normalize.Normalize(raw)
		for _, warning := range normalize.CheckTimePrecision(cleaned) {
			log.Debug().Str("method", run.method).Msg(warning)
		}

		path, err := a.saver.Save(cleaned, doc.Source, run.method)
		if err != nil {
			return "", err
		}
		log.Info().Str("method", run.method).Str("path", path).Msg("Saved timeline")

		fmt.Fprintf(&report, "Timeline (%s), saved to %s:\n\n%s\n\n", run.method, path, cleaned)
	}
	return strings.TrimRight(report.String(), "\n"), nil
}
