// Package router classifies a free-text question into one of the two
// processing paths: full-document timeline synthesis or retrieval QA.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"incident-rag/internal/llmservice"
)

// Label is the routing decision. It selects the downstream path and is not
// persisted.
type Label string

const (
	LabelTimeline Label = "timeline"
	LabelQA       Label = "rag_qa"
)

const classifyPrompt = `You are a helpful assistant that classifies questions.

Classify the following question as either 'timeline' or 'rag_qa':

Question: %s

Rules:
- Use 'timeline' for: creating timelines, summarizing events, chronological summaries
- Use 'rag_qa' for: specific questions about times, people, files, details

Examples:
- "Create a timeline" → timeline
- "Summarize the events" → timeline
- "What time did X happen?" → rag_qa
- "Who was involved?" → rag_qa
- "What was the file name?" → rag_qa

Answer with only 'timeline' or 'rag_qa':`

// Router is the single-shot intent classifier.
type Router struct {
	completer llmservice.Completer
}

// New wires the router to a completion service.
func New(completer llmservice.Completer) *Router {
	return &Router{completer: completer}
}

// Classify maps the question to exactly one label. Any service failure or
// response outside the two accepted labels defaults to rag_qa: the QA path
// has a deterministic no-evidence fallback, while the timeline path always
// costs two whole-document synthesis runs.
func (r *Router) Classify(ctx context.Context, question string) Label {
	out, err := r.completer.Complete(ctx, fmt.Sprintf(classifyPrompt, question), 0)
	if err != nil {
		log.Warn().Err(err).Msg("Classification failed, defaulting to rag_qa")
		return LabelQA
	}
	switch strings.ToLower(strings.TrimSpace(out)) {
	case string(LabelTimeline):
		return LabelTimeline
	case string(LabelQA):
		return LabelQA
	default:
		log.Debug().Str("response", out).Msg("Ambiguous classification, defaulting to rag_qa")
		return LabelQA
	}
}
