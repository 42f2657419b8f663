package embedding

import "errors"

var errMockFailure = errors.New("mock embedder failure")

type MockEmbedder struct {
	dimension int
	failures  int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

// FailNext makes the next n calls fail. Used to exercise fallback paths.
func (e *MockEmbedder) FailNext(n int) {
	e.failures = n
}

func (e *MockEmbedder) EmbedDocuments(texts []string) ([][]float32, error) {
	if e.failures > 0 {
		e.failures--
		return nil, errMockFailure
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = e.embedOne(texts[i])
	}
	return embeddings, nil
}

func (e *MockEmbedder) EmbedQuery(text string) ([]float32, error) {
	if e.failures > 0 {
		e.failures--
		return nil, errMockFailure
	}
	return e.embedOne(text), nil
}

func (e *MockEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)
	for j, r := range text {
		if j < e.dimension {
			vec[j] = float32(r) / 1000.0
		}
	}
	return vec
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
