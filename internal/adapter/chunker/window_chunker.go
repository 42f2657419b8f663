package chunker

import (
	"strings"

	"ragagent/internal/domain"
)

// defaultSeparators is the preference order for split points: paragraph
// break, line break, word boundary, then raw character boundary.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// WindowChunker splits text into overlapping windows of roughly chunkSize
// characters, preferring to break at the coarsest separator available.
type WindowChunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewWindowChunker(chunkSize, overlap int) *WindowChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &WindowChunker{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

func (c *WindowChunker) CreateChunks(text, source string, page int) ([]domain.Chunk, error) {
	pieces := c.split(text, c.separators)

	var chunks []domain.Chunk
	for _, piece := range pieces {
		content := strings.TrimSpace(piece)
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

// split recursively divides text on the first separator present, then merges
// the fragments back into windows that respect chunkSize and overlap.
func (c *WindowChunker) split(text string, separators []string) []string {
	if text == "" {
		return nil
	}

	sep := separators[len(separators)-1]
	rest := separators
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	var fragments []string
	if sep == "" {
		fragments = splitFixed(text, c.chunkSize)
	} else {
		fragments = strings.Split(text, sep)
	}

	var final []string
	for _, frag := range fragments {
		if len(frag) <= c.chunkSize {
			final = append(final, frag)
			continue
		}
		// Fragment still too large; retry with finer separators.
		final = append(final, c.split(frag, rest)...)
	}

	return c.merge(final, sep)
}

// merge joins fragments into windows up to chunkSize, carrying the trailing
// fragments whose combined length fits within the overlap into the
// start of the next window.
func (c *WindowChunker) merge(fragments []string, sep string) []string {
	var windows []string
	var current []string
	length := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		window := strings.Join(current, sep)
		if strings.TrimSpace(window) != "" {
			windows = append(windows, window)
		}

		// Keep the overlap tail for the next window.
		var kept []string
		keptLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			fragLen := len(current[i]) + len(sep)
			if keptLen+fragLen > c.overlap {
				break
			}
			kept = append([]string{current[i]}, kept...)
			keptLen += fragLen
		}
		current = kept
		length = keptLen
	}

	for _, frag := range fragments {
		fragLen := len(frag)
		if len(current) > 0 {
			fragLen += len(sep)
		}
		if length+fragLen > c.chunkSize && len(current) > 0 {
			flush()
			fragLen = len(frag)
			if len(current) > 0 {
				fragLen += len(sep)
			}
		}
		current = append(current, frag)
		length += fragLen
	}

	if len(current) > 0 {
		window := strings.Join(current, sep)
		if strings.TrimSpace(window) != "" {
			windows = append(windows, window)
		}
	}

	return windows
}

// splitFixed cuts text into size-bounded slices at character boundaries.
func splitFixed(text string, size int) []string {
	if size <= 0 {
		return []string{text}
	}
	var parts []string
	runes := []rune(text)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
