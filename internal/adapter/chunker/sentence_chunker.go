package chunker

import (
	"strings"

	"ragagent/internal/adapter/analyzer"
	"ragagent/internal/domain"
)

// SentenceChunker groups sentences into fixed-count chunks in original
// order, with no overlap. When the segmenter is unavailable or cannot find
// sentence boundaries in non-empty text, it falls back to window chunking
// and reports the fallback through onFallback.
type SentenceChunker struct {
	segmenter         *analyzer.SentenceSegmenter
	sentencesPerChunk int
	fallback          *WindowChunker
	onFallback        func(reason string)
}

func NewSentenceChunker(
	segmenter *analyzer.SentenceSegmenter,
	sentencesPerChunk int,
	fallback *WindowChunker,
	onFallback func(reason string),
) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 8
	}
	if fallback == nil {
		fallback = NewWindowChunker(1000, 200)
	}
	return &SentenceChunker{
		segmenter:         segmenter,
		sentencesPerChunk: sentencesPerChunk,
		fallback:          fallback,
		onFallback:        onFallback,
	}
}

func (c *SentenceChunker) CreateChunks(text, source string, page int) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if c.segmenter == nil {
		c.reportFallback("sentence segmenter unavailable, using window chunking")
		return c.fallback.CreateChunks(text, source, page)
	}

	sentences := c.segmenter.Segment(text)
	if len(sentences) == 0 {
		c.reportFallback("no sentence boundaries found, using window chunking")
		return c.fallback.CreateChunks(text, source, page)
	}

	var chunks []domain.Chunk
	for start := 0; start < len(sentences); start += c.sentencesPerChunk {
		end := start + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		content := strings.TrimSpace(strings.Join(sentences[start:end], " "))
		if content == "" {
			continue
		}
		index := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:      chunkID(source, page, index),
			Content: content,
			Source:  source,
			Page:    page,
			Index:   index,
		})
	}

	return chunks, nil
}

func (c *SentenceChunker) reportFallback(reason string) {
	if c.onFallback != nil {
		c.onFallback(reason)
	}
}
