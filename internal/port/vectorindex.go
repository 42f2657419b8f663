package port

import "ragagent/internal/domain"

// VectorIndex persists chunks with their embeddings and performs
// nearest-neighbor search.
type VectorIndex interface {
	// Add stores the records whose chunk IDs are not already present and
	// returns the count actually inserted. Records with existing IDs are
	// skipped, never overwritten. An existence-check failure aborts the
	// whole batch rather than being treated as "absent".
	Add(records []Record) (int, error)

	// Search returns up to k results ordered by ascending distance.
	// An empty index yields an empty slice, not an error.
	Search(query []float32, k int) ([]domain.RetrievalResult, error)

	// Stats returns the total record count and recorded provider identity.
	Stats() (domain.Stats, error)

	// RecordProvider pins the embedding provider identity for this index.
	// The first call records it; later calls with a different model or
	// dimension fail with domain.ErrProviderMismatch. Callers must invoke
	// this with the provider actually in use before Add or Search.
	RecordProvider(model string, dimension int) error

	Close() error
}

// Record pairs a chunk with its embedding for insertion.
type Record struct {
	Chunk  domain.Chunk
	Vector []float32
}
