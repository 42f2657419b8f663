package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"
	"ragagent/internal/domain"
	"ragagent/internal/port"
)

var (
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")
	keyProvider   = []byte("provider")
)

// BoltVectorIndex implements port.VectorIndex using BoltDB for persistence.
// Records are kept in memory for brute-force search; BoltDB holds the
// durable copy. The collection is created if absent, reused if present.
type BoltVectorIndex struct {
	db        *bbolt.DB
	mu        sync.RWMutex
	records   map[string]recordEntry
	model     string
	dimension int
}

type recordEntry struct {
	content  string
	source   string
	page     int
	chunkIdx int
	vector   []float32
}

type storedRecord struct {
	Content  string    `json:"content"`
	Source   string    `json:"source"`
	Page     int       `json:"page"`
	ChunkIdx int       `json:"chunk_index"`
	Vector   []float32 `json:"v"`
}

type providerMeta struct {
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

// NewBoltVectorIndex opens (or creates) the index at path and loads existing
// records into memory.
func NewBoltVectorIndex(path string) (*BoltVectorIndex, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open index db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRecords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	idx := &BoltVectorIndex{
		db:      db,
		records: make(map[string]recordEntry),
	}

	if err := idx.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	return idx, nil
}

func (s *BoltVectorIndex) load() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyProvider); data != nil {
			var meta providerMeta
			if err := json.Unmarshal(data, &meta); err != nil {
				return fmt.Errorf("corrupt provider metadata: %w", err)
			}
			s.model = meta.Model
			s.dimension = meta.Dimension
		}

		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("corrupt record %s: %w", k, err)
			}
			s.records[string(k)] = recordEntry{
				content:  stored.Content,
				source:   stored.Source,
				page:     stored.Page,
				chunkIdx: stored.ChunkIdx,
				vector:   stored.Vector,
			}
			return nil
		})
	})
}

// RecordProvider pins the embedding provider identity. The first call
// persists it; later calls must match or the index rejects the provider.
func (s *BoltVectorIndex) RecordProvider(model string, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == "" && s.dimension == 0 {
		meta := providerMeta{Model: model, Dimension: dimension}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		err = s.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket(bucketMeta).Put(keyProvider, data)
		})
		if err != nil {
			return fmt.Errorf("failed to record provider: %w", err)
		}
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

// Add inserts records whose IDs are not yet present, all within one write
// transaction: existence checks first, then the staged puts. A failure at
// any point rolls the whole batch back, so a check failure is never
// silently treated as "absent".
func (s *BoltVectorIndex) Add(records []port.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]port.Record, 0, len(records))

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		if b == nil {
			return fmt.Errorf("records bucket not found")
		}

		for _, rec := range records {
			if s.dimension > 0 && len(rec.Vector) != s.dimension {
				return fmt.Errorf("record %s has dimension %d, index has %d: %w",
					rec.Chunk.ID, len(rec.Vector), s.dimension, domain.ErrDimensionMismatch)
			}
			if b.Get([]byte(rec.Chunk.ID)) != nil {
				continue // duplicate, keep the existing record
			}
			staged = append(staged, rec)
		}

		for _, rec := range staged {
			stored := storedRecord{
				Content:  rec.Chunk.Content,
				Source:   rec.Chunk.Source,
				Page:     rec.Chunk.Page,
				ChunkIdx: rec.Chunk.Index,
				Vector:   rec.Vector,
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(rec.Chunk.ID), data); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
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

// Search returns up to k records ordered by ascending cosine distance.
func (s *BoltVectorIndex) Search(query []float32, k int) ([]domain.RetrievalResult, error) {
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

// Stats returns the record count and recorded provider identity.
func (s *BoltVectorIndex) Stats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		TotalChunks: len(s.records),
		Model:       s.model,
		Dimension:   s.dimension,
	}, nil
}

func (s *BoltVectorIndex) Close() error {
	return s.db.Close()
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
