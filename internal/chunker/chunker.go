// Package chunker splits raw document text into overlapping segments.
// The same splitter serves both the indexing profile (small chunks, high
// overlap) and the narrative profile used by the timeline synthesizers.
package chunker

import (
	"regexp"
	"strings"

	"incident-rag/internal/config"
	"incident-rag/internal/models"
)

// Separators in priority order: paragraph break first, then line break,
// sentence-ending punctuation, word boundary, and finally a hard cut.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// timeMarkerRe matches literal clock times such as "7:12 PM" or "At 3:11 AM".
var timeMarkerRe = regexp.MustCompile(`\b(?:At\s+)?\d{1,2}:\d{2}\s*(?:AM|PM)\b`)

// Split cuts text into ordered, overlapping chunks. Each chunk span covers
// at most p.ChunkSize bytes of the source and the next chunk starts
// p.Overlap bytes before the previous one ended, so the ordered spans cover
// the whole document with no gaps. The final chunk may be shorter than
// p.ChunkSize. Requires p.Overlap < p.ChunkSize; an invalid overlap is
// clamped to half the chunk size.
func Split(text string, p config.Profile) []models.Chunk {
	if p.ChunkSize <= 0 || len(text) == 0 {
		return nil
	}
	overlap := p.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= p.ChunkSize {
		overlap = p.ChunkSize / 2
	}

	var chunks []models.Chunk
	start := 0
	for start < len(text) {
		end := breakPoint(text, start, p.ChunkSize)

		cleaned := strings.TrimSpace(text[start:end])
		if cleaned != "" {
			times := timeMarkerRe.FindAllString(cleaned, -1)
			id := len(chunks)
			chunks = append(chunks, models.Chunk{
				ID:    id,
				Text:  cleaned,
				Start: start,
				End:   end,
				Metadata: models.ChunkMetadata{
					ChunkID:       id,
					Length:        len(cleaned),
					HasTimeMarker: len(times) > 0,
					TimesFound:    strings.Join(times, ", "),
				},
			})
		}

		if end >= len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			// Overlap would stall the scan; give up the overlap for this step.
			next = end
		}
		start = next
	}
	return chunks
}

// breakPoint finds where the chunk starting at start should end. It prefers
// the highest-priority separator whose last occurrence keeps the segment
// under the size limit and non-empty; with no separator in the window the
// chunk is cut hard at the limit.
func breakPoint(text string, start, size int) int {
	end := start + size
	if end >= len(text) {
		return len(text)
	}
	window := text[start:end]
	for _, sep := range separators {
		if sep == "" {
			break
		}
		if i := strings.LastIndex(window, sep); i > 0 {
			return start + i + len(sep)
		}
	}
	return end
}

// TimeMarkers reports the literal clock times found in text, in order.
func TimeMarkers(text string) []string {
	return timeMarkerRe.FindAllString(text, -1)
}
