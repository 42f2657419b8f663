package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"ragagent/internal/adapter/cache"
	"ragagent/internal/adapter/chunker"
	"ragagent/internal/adapter/embedding"
	"ragagent/internal/adapter/store"
	"ragagent/internal/domain"
	"ragagent/internal/port"
)

func newIngest(t *testing.T, embedder, fallback port.Embedder, idx *store.MemoryVectorIndex) *IngestUseCase {
	t.Helper()
	return NewIngestUseCase(chunker.NewWindowChunker(1000, 200), embedder, fallback, idx, nil, nil)
}

func TestIngestIdempotent(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	u := newIngest(t, embedding.NewMockEmbedder(8), nil, idx)

	first, err := u.Ingest("The sky is blue.", "sky.txt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if first.ChunksCreated != 1 || first.Inserted != 1 || first.Duplicates != 0 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := u.Ingest("The sky is blue.", "sky.txt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if second.Inserted != 0 || second.Duplicates != 1 {
		t.Fatalf("repeat ingest was not a no-op: %+v", second)
	}

	stats, _ := idx.Stats()
	if stats.TotalChunks != 1 {
		t.Errorf("expected 1 chunk in index, got %d", stats.TotalChunks)
	}
}

func TestIngestEmptyText(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	u := newIngest(t, embedding.NewMockEmbedder(8), nil, idx)

	result, err := u.Ingest("   ", "blank.txt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.ChunksCreated != 0 || result.Inserted != 0 {
		t.Errorf("blank text produced records: %+v", result)
	}
}

func TestIngestFallbackOnEmbeddingFailure(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	primary := embedding.NewMockEmbedder(8)
	fallback := embedding.NewMockEmbedder(8)
	u := newIngest(t, primary, fallback, idx)

	primary.FailNext(1)

	result, err := u.Ingest("The sky is blue.", "sky.txt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 1 {
		t.Fatalf("fallback path did not insert: %+v", result)
	}
	if len(result.Notes) == 0 {
		t.Error("fallback was not noted in the result")
	} else if !strings.Contains(result.Notes[0], "retrying") {
		t.Errorf("unexpected note: %q", result.Notes[0])
	}
}

func TestIngestBothEmbeddersFail(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	primary := embedding.NewMockEmbedder(8)
	fallback := embedding.NewMockEmbedder(8)
	u := newIngest(t, primary, fallback, idx)

	primary.FailNext(1)
	fallback.FailNext(1)

	_, err := u.Ingest("The sky is blue.", "sky.txt", 0)
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}

	stats, _ := idx.Stats()
	if stats.TotalChunks != 0 {
		t.Errorf("failed ingest mutated the index: %d chunks", stats.TotalChunks)
	}
}

func TestIngestNoFallbackConfigured(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	primary := embedding.NewMockEmbedder(8)
	u := newIngest(t, primary, nil, idx)

	primary.FailNext(1)

	if _, err := u.Ingest("text", "doc.txt", 0); err == nil {
		t.Fatal("expected error when the only embedder fails")
	}
}

func TestIngestInvalidatesAnswerCache(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	answerCache := cache.NewAnswerCache(10, time.Minute)
	chk := chunker.NewWindowChunker(1000, 200)
	u := NewIngestUseCase(chk, embedding.NewMockEmbedder(8), nil, idx, nil, answerCache)

	answerCache.Put("q", 5, &domain.QueryAnswer{Answer: "stale"})

	if _, err := u.Ingest("New material changes the answers.", "new.txt", 0); err != nil {
		t.Fatal(err)
	}

	if _, ok := answerCache.Get("q", 5); ok {
		t.Error("cache entry survived an ingest that inserted records")
	}

	// A pure-duplicate ingest keeps the cache intact.
	answerCache.Put("q", 5, &domain.QueryAnswer{Answer: "still valid"})
	if _, err := u.Ingest("New material changes the answers.", "new.txt", 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := answerCache.Get("q", 5); !ok {
		t.Error("duplicate-only ingest invalidated the cache")
	}
}

func TestIngestSurfacesChunkerNotes(t *testing.T) {
	idx := store.NewMemoryVectorIndex()
	recorder := chunker.NewFallbackRecorder()
	chk := chunker.NewSentenceChunker(nil, 8, chunker.NewWindowChunker(1000, 200), recorder.Record)
	u := NewIngestUseCase(chk, embedding.NewMockEmbedder(8), nil, idx, recorder, nil)

	result, err := u.Ingest("Text without a working segmenter.", "doc.txt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Notes) == 0 {
		t.Error("chunker fallback was not surfaced in result notes")
	}
}
