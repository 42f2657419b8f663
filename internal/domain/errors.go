package domain

import "errors"

var (
	// ErrProviderMismatch indicates the embedding provider recorded in the
	// index differs from the one in use. Search against a mismatched index
	// is meaningless and must be rejected, not attempted.
	ErrProviderMismatch = errors.New("embedding provider mismatch with index")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the dimension the index was created with.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingFailed indicates both the primary embedding provider and
	// the local fallback failed. The operation must abort with no index mutation.
	ErrEmbeddingFailed = errors.New("embedding failed on primary and fallback providers")
)
