package domain

// Chunk is a contiguous slice of source text with a stable identity.
// ID is derived from (Source, Page, Index), not from Content, so
// re-chunking identical text under the same coordinates yields the same ID.
type Chunk struct {
	ID      string
	Content string
	Source  string
	Page    int
	Index   int
}

// RetrievalResult is a single search hit. Produced per query, never persisted.
type RetrievalResult struct {
	Content  string
	Source   string
	Page     int
	ChunkIdx int
	ChunkID  string
	Distance float64
}

// QueryAnswer is the assembled response to a question.
// SimilarityScores is aligned with ContextChunks, nearest first.
type QueryAnswer struct {
	Question         string    `json:"question"`
	Answer           string    `json:"answer"`
	Sources          []string  `json:"sources"`
	ContextChunks    []string  `json:"context_chunks"`
	SimilarityScores []float64 `json:"similarity_scores"`
}

// IngestResult contains the results of one ingestion operation.
type IngestResult struct {
	ChunksCreated int
	Inserted      int
	Duplicates    int
	Notes         []string
}

// Stats describes the state of the vector index.
type Stats struct {
	TotalChunks int
	Model       string
	Dimension   int
}
