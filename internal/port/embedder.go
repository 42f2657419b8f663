package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// EmbedDocuments generates embeddings for the given texts.
	// Returns one vector per input text, in input order.
	EmbedDocuments(texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query string.
	EmbedQuery(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
