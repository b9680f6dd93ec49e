package timeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-rag/internal/chunker"
	"incident-rag/internal/config"
	"incident-rag/internal/document"
)

var narrativeProfile = config.Profile{ChunkSize: 120, Overlap: 30}

const testStory = `At 3:11 AM the monitoring server rebooted without warning and paged the on-call phone.

Matt opened the AV console and started a heuristic scan across the dev servers in the west wing.

By 6:12 AM the scan had flagged logi_loader.dll on two marketing workstations near the sales area.

At 7:41 AM Kiera isolated the subnet and the team began reviewing the VPN logs entry by entry.`

func testDoc() document.Document {
	return document.Document{Title: "incident", Source: "story.txt", Text: testStory}
}

// scriptedCompleter extracts one bullet per prompt during the map phase and
// merges with simple deduplication during the reduce phase. Safe for
// concurrent use.
type scriptedCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	failOn  string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string, _ float64) (string, error) {
	c.mu.Lock()
	c.calls++
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	if c.failOn != "" && strings.Contains(prompt, c.failOn) {
		return "", errors.New("completion service down")
	}

	if strings.HasPrefix(prompt, "Merge these timeline summaries") {
		// Deduplicate bullet lines, keep first occurrence order.
		seen := map[string]bool{}
		var merged []string
		for _, line := range strings.Split(prompt, "\n") {
			if !strings.HasPrefix(line, "•") || seen[line] {
				continue
			}
			seen[line] = true
			merged = append(merged, line)
		}
		return strings.Join(merged, "\n"), nil
	}

	// Map phase: one bullet derived from the chunk's first time marker.
	times := chunker.TimeMarkers(prompt)
	if len(times) > 0 {
		return fmt.Sprintf("• %s - event", strings.TrimPrefix(times[len(times)-1], "At ")), nil
	}
	return "• Time not specified - event", nil
}

func TestMapReduceMergesAllPartials(t *testing.T) {
	completer := &scriptedCompleter{}
	s := NewMapReduce(completer, narrativeProfile, 3)

	timeline, err := s.Synthesize(context.Background(), testDoc())
	require.NoError(t, err)
	assert.NotEmpty(t, timeline)

	chunks := chunker.Split(testStory, narrativeProfile)
	// One call per chunk plus the reduce call.
	assert.Equal(t, len(chunks)+1, completer.calls)
}

func TestMapReduceCardinalityBound(t *testing.T) {
	completer := &scriptedCompleter{}
	s := NewMapReduce(completer, narrativeProfile, 2)

	timeline, err := s.Synthesize(context.Background(), testDoc())
	require.NoError(t, err)

	var partialEntries int
	var mergeInput string
	for _, p := range completer.prompts {
		if strings.HasPrefix(p, "Merge these timeline summaries") {
			mergeInput = p
			continue
		}
	}
	require.NotEmpty(t, mergeInput)
	partialEntries = strings.Count(mergeInput, "•")

	mergedEntries := strings.Count(timeline, "•")
	assert.LessOrEqual(t, mergedEntries, partialEntries,
		"merge may collapse entries but never invent new ones")
	assert.Positive(t, mergedEntries)
}

func TestMapReduceAssemblesReduceInputInChunkOrder(t *testing.T) {
	completer := &scriptedCompleter{}
	s := NewMapReduce(completer, narrativeProfile, 4)

	_, err := s.Synthesize(context.Background(), testDoc())
	require.NoError(t, err)

	var mergeInput string
	for _, p := range completer.prompts {
		if strings.HasPrefix(p, "Merge these timeline summaries") {
			mergeInput = p
		}
	}
	require.NotEmpty(t, mergeInput)

	// Partials appear in document order even though the map phase ran on
	// parallel workers.
	first := strings.Index(mergeInput, "3:11 AM")
	last := strings.Index(mergeInput, "7:41 AM")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, last, 0)
	assert.Less(t, first, last)
}

func TestMapReduceMapFailureAbortsSynthesis(t *testing.T) {
	completer := &scriptedCompleter{failOn: "6:12 AM"}
	s := NewMapReduce(completer, narrativeProfile, 2)

	_, err := s.Synthesize(context.Background(), testDoc())
	assert.Error(t, err)
}

func TestMapReduceReduceFailureAbortsSynthesis(t *testing.T) {
	completer := &scriptedCompleter{failOn: "Merge these timeline summaries"}
	s := NewMapReduce(completer, narrativeProfile, 2)

	_, err := s.Synthesize(context.Background(), testDoc())
	assert.Error(t, err)
}

func TestMapReduceEmptyDocument(t *testing.T) {
	s := NewMapReduce(&scriptedCompleter{}, narrativeProfile, 2)
	_, err := s.Synthesize(context.Background(), document.Document{Source: "empty.txt"})
	assert.Error(t, err)
}
