package chunker

import "sync"

// FallbackRecorder collects chunking fallback diagnostics so callers can
// surface them instead of losing them. Safe for reuse across calls.
type FallbackRecorder struct {
	mu    sync.Mutex
	notes []string
}

func NewFallbackRecorder() *FallbackRecorder {
	return &FallbackRecorder{}
}

func (r *FallbackRecorder) Record(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, reason)
}

// Drain returns the accumulated notes and clears the recorder.
func (r *FallbackRecorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes := r.notes
	r.notes = nil
	return notes
}
