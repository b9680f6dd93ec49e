package models

import "fmt"

// Chunk is a contiguous, possibly overlapping slice of the source document.
// Start and End are byte offsets into the raw document text; Text is the
// trimmed content that gets embedded and stored.
type Chunk struct {
	ID       int
	Text     string
	Start    int
	End      int
	Metadata ChunkMetadata
}

// ChunkMetadata travels with the chunk into the vector store.
type ChunkMetadata struct {
	ChunkID       int
	Length        int
	HasTimeMarker bool
	TimesFound    string
	DocumentTitle string
	Source        string
}

// StoreID returns the chunk's identifier in the vector store.
func (c Chunk) StoreID() string {
	return fmt.Sprintf("chunk_%d", c.ID)
}

// RetrievedChunk is one similarity-search hit, in store ranking order.
type RetrievedChunk struct {
	Text       string
	Metadata   map[string]string
	Similarity float32
}

// Answer is the result of the QA path: the question, the context block the
// generation was grounded on, and the generated text.
type Answer struct {
	Query   string
	Source  string
	Content string
}
