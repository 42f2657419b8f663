package store

import (
	"fmt"
	"sort"
	"sync"

	"ragagent/internal/domain"
	"ragagent/internal/port"
)

// MemoryVectorIndex is an in-process port.VectorIndex with the same dedup
// and ordering semantics as the BoltDB index. Nothing survives the process;
// intended for tests and throwaway sessions.
type MemoryVectorIndex struct {
	mu        sync.RWMutex
	records   map[string]recordEntry
	model     string
	dimension int
}

func NewMemoryVectorIndex() *MemoryVectorIndex {
	return &MemoryVectorIndex{
		records: make(map[string]recordEntry),
	}
}

func (s *MemoryVectorIndex) RecordProvider(model string, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == "" && s.dimension == 0 {
		s.model = model
		s.dimension = dimension
		return nil
	}
	if s.model != model || s.dimension != dimension {
		return fmt.Errorf("index built with %s (dim %d), got %s (dim %d): %w",
			s.model, s.dimension, model, dimension, domain.ErrProviderMismatch)
	}
	return nil
}

func (s *MemoryVectorIndex) Add(records []port.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]port.Record, 0, len(records))
	for _, rec := range records {
		if s.dimension > 0 && len(rec.Vector) != s.dimension {
			return 0, fmt.Errorf("record %s has dimension %d, index has %d: %w",
				rec.Chunk.ID, len(rec.Vector), s.dimension, domain.ErrDimensionMismatch)
		}
		if _, exists := s.records[rec.Chunk.ID]; exists {
			continue
		}
		staged = append(staged, rec)
	}

	for _, rec := range staged {
		s.records[rec.Chunk.ID] = recordEntry{
			content:  rec.Chunk.Content,
			source:   rec.Chunk.Source,
			page:     rec.Chunk.Page,
			chunkIdx: rec.Chunk.Index,
			vector:   rec.Vector,
		}
	}

	return len(staged), nil
}

func (s *MemoryVectorIndex) Search(query []float32, k int) ([]domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimension > 0 && len(query) != s.dimension {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w",
			len(query), s.dimension, domain.ErrDimensionMismatch)
	}

	if len(s.records) == 0 || k <= 0 {
		return nil, nil
	}

	results := make([]domain.RetrievalResult, 0, len(s.records))
	for id, entry := range s.records {
		results = append(results, domain.RetrievalResult{
			Content:  entry.content,
			Source:   entry.source,
			Page:     entry.page,
			ChunkIdx: entry.chunkIdx,
			ChunkID:  id,
			Distance: 1 - cosineSimilarity(query, entry.vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if k < len(results) {
		results = results[:k]
	}

	return results, nil
}

func (s *MemoryVectorIndex) Stats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		TotalChunks: len(s.records),
		Model:       s.model,
		Dimension:   s.dimension,
	}, nil
}

func (s *MemoryVectorIndex) Close() error {
	return nil
}
