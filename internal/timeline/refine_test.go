package timeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-rag/internal/chunker"
	"incident-rag/internal/document"
)

// foldCompleter appends one line per step so the accumulator records the
// exact order in which chunks were folded in.
type foldCompleter struct {
	step  int
	fail  int // 1-based step to fail on, 0 for never
	calls []string
}

func (c *foldCompleter) Complete(_ context.Context, prompt string, _ float64) (string, error) {
	c.step++
	c.calls = append(c.calls, prompt)
	if c.fail == c.step {
		return "", errors.New("completion service down")
	}

	if strings.HasPrefix(prompt, "You have an existing timeline summary") {
		// The accumulator sits between "Existing timeline:" and "New
		// information to add:".
		body := prompt
		if i := strings.Index(body, "Existing timeline:\n"); i >= 0 {
			body = body[i+len("Existing timeline:\n"):]
		}
		accumulator := body
		if i := strings.Index(body, "\n\nNew information to add:"); i >= 0 {
			accumulator = body[:i]
		}
		return accumulator + fmt.Sprintf("\n• step %d", c.step), nil
	}
	return fmt.Sprintf("• step %d", c.step), nil
}

func TestRefineFoldsChunksSequentially(t *testing.T) {
	completer := &foldCompleter{}
	s := NewRefine(completer, narrativeProfile)

	timeline, err := s.Synthesize(context.Background(), testDoc())
	require.NoError(t, err)

	chunks := chunker.Split(testStory, narrativeProfile)
	require.Greater(t, len(chunks), 1)
	assert.Len(t, completer.calls, len(chunks))

	// Every step's line survives, in fold order.
	for i := 1; i <= len(chunks); i++ {
		assert.Contains(t, timeline, fmt.Sprintf("• step %d", i))
	}
	assert.Less(t, strings.Index(timeline, "• step 1"), strings.Index(timeline, "• step 2"))

	// The first call is an extraction, every later call a refinement
	// carrying the previous accumulator.
	assert.True(t, strings.HasPrefix(completer.calls[0], "Extract and organize"))
	for _, call := range completer.calls[1:] {
		assert.True(t, strings.HasPrefix(call, "You have an existing timeline summary"))
		assert.Contains(t, call, "• step 1")
	}
}

func TestRefineChunkOrderChangesTheResult(t *testing.T) {
	// The fold is non-commutative: feeding the same chunks in a different
	// order may legitimately produce a different timeline.
	chunks := chunker.Split(testStory, narrativeProfile)
	require.GreaterOrEqual(t, len(chunks), 2)

	// A fold whose each step appends the new chunk's opening words to the
	// accumulator, mimicking a model that weaves new text into what it has.
	fold := func(ordered []string) string {
		acc := firstWords(ordered[0])
		for _, text := range ordered[1:] {
			acc = acc + " | " + firstWords(text)
		}
		return acc
	}

	forward := make([]string, len(chunks))
	for i, c := range chunks {
		forward[i] = c.Text
	}
	reversed := make([]string, len(forward))
	for i, text := range forward {
		reversed[len(forward)-1-i] = text
	}

	// Identical inputs replay identically, but reordering the chunks is not
	// guaranteed to converge to the same text.
	assert.Equal(t, fold(forward), fold(forward))
	assert.NotEqual(t, fold(forward), fold(reversed))
}

func firstWords(text string) string {
	fields := strings.Fields(text)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}

func TestRefineStepFailureAbortsSynthesis(t *testing.T) {
	completer := &foldCompleter{fail: 2}
	s := NewRefine(completer, narrativeProfile)

	_, err := s.Synthesize(context.Background(), testDoc())
	assert.Error(t, err)
}

func TestRefineEmptyDocument(t *testing.T) {
	s := NewRefine(&foldCompleter{}, narrativeProfile)
	_, err := s.Synthesize(context.Background(), document.Document{Source: "empty.txt"})
	assert.Error(t, err)
}

func TestRefineSingleChunkSkipsRefinement(t *testing.T) {
	completer := &foldCompleter{}
	s := NewRefine(completer, narrativeProfile)

	doc := document.Document{Source: "short.txt", Text: "At 2:47 AM a single alert fired."}
	timeline, err := s.Synthesize(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "• step 1", timeline)
	assert.Len(t, completer.calls, 1)
}
