package usecase

import (
	"fmt"

	"ragagent/internal/adapter/cache"
	"ragagent/internal/adapter/chunker"
	"ragagent/internal/domain"
	"ragagent/internal/port"
)

// IngestUseCase turns raw text into deduplicated, embedded index records.
type IngestUseCase struct {
	chunker   port.Chunker
	embedder  port.Embedder
	fallback  port.Embedder
	index     port.VectorIndex
	recorder  *chunker.FallbackRecorder
	answerCch *cache.AnswerCache
}

// NewIngestUseCase creates an ingest use case. fallback is the local
// in-process embedder retried once when the primary fails; recorder and
// answerCache may be nil.
func NewIngestUseCase(
	chk port.Chunker,
	embedder port.Embedder,
	fallback port.Embedder,
	index port.VectorIndex,
	recorder *chunker.FallbackRecorder,
	answerCache *cache.AnswerCache,
) *IngestUseCase {
	return &IngestUseCase{
		chunker:   chk,
		embedder:  embedder,
		fallback:  fallback,
		index:     index,
		recorder:  recorder,
		answerCch: answerCache,
	}
}

// Ingest chunks the text, embeds the chunks, and adds them to the index.
// Repeating the same (text, source, page) is a no-op after the first
// successful call. Embedding failures are retried once with the fallback
// provider; if that also fails the index is left untouched.
func (u *IngestUseCase) Ingest(text, source string, page int) (*domain.IngestResult, error) {
	result := &domain.IngestResult{}

	chunks, err := u.chunker.CreateChunks(text, source, page)
	if err != nil {
		return nil, fmt.Errorf("chunking failed: %w", err)
	}
	if u.recorder != nil {
		result.Notes = append(result.Notes, u.recorder.Drain()...)
	}
	result.ChunksCreated = len(chunks)
	if len(chunks) == 0 {
		return result, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	used := u.embedder
	vectors, err := used.EmbedDocuments(texts)
	if err != nil {
		if u.fallback == nil {
			return nil, fmt.Errorf("embedding failed: %w", err)
		}
		result.Notes = append(result.Notes,
			fmt.Sprintf("embedder %s failed (%v), retrying with %s", used.ModelName(), err, u.fallback.ModelName()))
		used = u.fallback
		vectors, err = used.EmbedDocuments(texts)
		if err != nil {
			return nil, fmt.Errorf("fallback embedding also failed (%v): %w", err, domain.ErrEmbeddingFailed)
		}
	}

	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder %s returned %d vectors for %d chunks", used.ModelName(), len(vectors), len(chunks))
	}

	if err := u.index.RecordProvider(used.ModelName(), used.Dimension()); err != nil {
		return nil, err
	}

	records := make([]port.Record, len(chunks))
	for i, c := range chunks {
		records[i] = port.Record{Chunk: c, Vector: vectors[i]}
	}

	inserted, err := u.index.Add(records)
	if err != nil {
		return nil, fmt.Errorf("index add failed: %w", err)
	}

	result.Inserted = inserted
	result.Duplicates = len(records) - inserted

	if inserted > 0 && u.answerCch != nil {
		u.answerCch.Invalidate()
	}

	return result, nil
}
