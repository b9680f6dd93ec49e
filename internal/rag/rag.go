// Package rag is the question-answering path: retrieval, context
// augmentation, generation.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"incident-rag/internal/llmservice"
	"incident-rag/internal/models"
	"incident-rag/internal/retrieve"
)

// NoInformationAnswer is returned verbatim whenever retrieval produces no
// evidence. No completion call happens in that case.
const NoInformationAnswer = "No relevant information found in the documents."

const answerTemplate = `You are a cybersecurity expert analyzing a cybersecurity incident.
Answer the following question based on the provided context.
Be accurate, concise, and provide specific details when available.

CONTEXT (Retrieved Documents):
%s

QUESTION: %s

ANSWER:`

// Pipeline runs the QA path. Faithfulness of the answer to the retrieved
// context is the completion service's responsibility; no grounding check
// happens here.
type Pipeline struct {
	retriever   *retrieve.Retriever
	completer   llmservice.Completer
	topK        int
	temperature float64
}

// New wires the QA pipeline from its collaborators.
func New(retriever *retrieve.Retriever, completer llmservice.Completer, topK int, temperature float64) *Pipeline {
	return &Pipeline{
		retriever:   retriever,
		completer:   completer,
		topK:        topK,
		temperature: temperature,
	}
}

// Answer retrieves evidence for the question, folds it into the instruction
// template, and returns the completion verbatim. Retrieval-side failures
// (embedding, store) degrade to the no-information sentinel instead of
// surfacing as errors; completion failures propagate.
func (p *Pipeline) Answer(ctx context.Context, question string) (models.Answer, error) {
	chunks, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		log.Warn().Err(err).Msg("Retrieval failed, answering with no evidence")
		return models.Answer{Query: question, Content: NoInformationAnswer}, nil
	}
	if len(chunks) == 0 {
		return models.Answer{Query: question, Content: NoInformationAnswer}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	contextBlock := strings.Join(texts, "\n\n")

	prompt := fmt.Sprintf(answerTemplate, contextBlock, question)
	answer, err := p.completer.Complete(ctx, prompt, p.temperature)
	if err != nil {
		return models.Answer{}, err
	}
	return models.Answer{Query: question, Source: contextBlock, Content: answer}, nil
}
