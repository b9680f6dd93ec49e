// Package eval is the offline harness that scores QA answers against a
// ground-truth question set. It sits outside the request path and is only
// run by hand.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"incident-rag/internal/llmservice"
	"incident-rag/internal/rag"
)

const gradePrompt = `You are grading an answer against a reference answer.

Question: %s

Reference answer: %s

Candidate answer: %s

Score the candidate's factual agreement with the reference on a scale from
0.0 (contradicts or misses the reference) to 1.0 (fully correct).
Respond with only the number.`

// GroundTruth is one reference question/answer pair.
type GroundTruth struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Score is the graded outcome for one question.
type Score struct {
	Question    string  `json:"question"`
	Reference   string  `json:"reference"`
	Answer      string  `json:"answer"`
	Correctness float64 `json:"correctness"`
}

// Report is the JSON document produced by one evaluation run.
type Report struct {
	GeneratedAt string  `json:"generated_at"`
	Mean        float64 `json:"mean_correctness"`
	Scores      []Score `json:"scores"`
}

// Harness runs every ground-truth question through the QA pipeline and has
// the completion service grade each answer.
type Harness struct {
	qa        *rag.Pipeline
	completer llmservice.Completer
}

// New wires the harness.
func New(qa *rag.Pipeline, completer llmservice.Completer) *Harness {
	return &Harness{qa: qa, completer: completer}
}

// LoadGroundTruth reads the reference set. The file holds
// {"ground_truth": [{"question": ..., "answer": ...}, ...]}.
func LoadGroundTruth(path string) ([]GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ground truth: %w", err)
	}
	var file struct {
		GroundTruth []GroundTruth `json:"ground_truth"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ground truth: %w", err)
	}
	return file.GroundTruth, nil
}

// Evaluate answers and grades every question. A single failed grade does
// not stop the run; the question is scored zero and logged.
func (h *Harness) Evaluate(ctx context.Context, items []GroundTruth) (Report, error) {
	report := Report{GeneratedAt: time.Now().Format(time.RFC3339)}
	var total float64
	for _, item := range items {
		answer, err := h.qa.Answer(ctx, item.Question)
		if err != nil {
			return Report{}, fmt.Errorf("QA failed for %q: %w", item.Question, err)
		}
		score := h.grade(ctx, item, answer.Content)
		total += score
		report.Scores = append(report.Scores, Score{
			Question:    item.Question,
			Reference:   item.Answer,
			Answer:      answer.Content,
			Correctness: score,
		})
	}
	if len(report.Scores) > 0 {
		report.Mean = total / float64(len(report.Scores))
	}
	return report, nil
}

func (h *Harness) grade(ctx context.Context, item GroundTruth, answer string) float64 {
	out, err := h.completer.Complete(ctx, fmt.Sprintf(gradePrompt, item.Question, item.Answer, answer), 0)
	if err != nil {
		log.Warn().Err(err).Str("question", item.Question).Msg("Grading failed, scoring zero")
		return 0
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil || score < 0 || score > 1 {
		log.Warn().Str("response", out).Msg("Unparseable grade, scoring zero")
		return 0
	}
	return score
}

// WriteReport saves the evaluation report as indented JSON.
func WriteReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
