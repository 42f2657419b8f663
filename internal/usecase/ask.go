package usecase

import (
	"fmt"
	"sort"

	"ragagent/internal/adapter/cache"
	"ragagent/internal/domain"
	"ragagent/internal/port"
)

// NoRelevantInformation is the canned answer returned when retrieval finds
// nothing. The language model is not consulted in that case.
const NoRelevantInformation = "No relevant information found."

// AskUseCase answers questions from indexed content.
type AskUseCase struct {
	embedder  port.Embedder
	fallback  port.Embedder
	index     port.VectorIndex
	synth     port.Synthesizer
	topK      int
	answerCch *cache.AnswerCache
}

// NewAskUseCase creates an ask use case. fallback and answerCache may be nil.
func NewAskUseCase(
	embedder port.Embedder,
	fallback port.Embedder,
	index port.VectorIndex,
	synth port.Synthesizer,
	topK int,
	answerCache *cache.AnswerCache,
) *AskUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &AskUseCase{
		embedder:  embedder,
		fallback:  fallback,
		index:     index,
		synth:     synth,
		topK:      topK,
		answerCch: answerCache,
	}
}

// Ask embeds the question, retrieves the nearest chunks, and synthesizes a
// grounded answer. When synthesis fails, the assembled retrieval context is
// returned alongside the error so callers can still see what was found.
func (u *AskUseCase) Ask(question string) (*domain.QueryAnswer, error) {
	if u.answerCch != nil {
		if cached, ok := u.answerCch.Get(question, u.topK); ok {
			return cached, nil
		}
	}

	used := u.embedder
	queryVector, err := used.EmbedQuery(question)
	if err != nil {
		if u.fallback == nil {
			return nil, fmt.Errorf("query embedding failed: %w", err)
		}
		used = u.fallback
		queryVector, err = used.EmbedQuery(question)
		if err != nil {
			return nil, fmt.Errorf("fallback query embedding also failed (%v): %w", err, domain.ErrEmbeddingFailed)
		}
	}

	if err := u.index.RecordProvider(used.ModelName(), used.Dimension()); err != nil {
		return nil, err
	}

	results, err := u.index.Search(queryVector, u.topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	answer := &domain.QueryAnswer{
		Question:         question,
		Sources:          []string{},
		ContextChunks:    []string{},
		SimilarityScores: []float64{},
	}

	if len(results) == 0 {
		answer.Answer = NoRelevantInformation
		if u.answerCch != nil {
			u.answerCch.Put(question, u.topK, answer)
		}
		return answer, nil
	}

	seen := make(map[string]struct{})
	for _, r := range results {
		answer.ContextChunks = append(answer.ContextChunks, r.Content)
		answer.SimilarityScores = append(answer.SimilarityScores, r.Distance)
		if _, ok := seen[r.Source]; !ok {
			seen[r.Source] = struct{}{}
			answer.Sources = append(answer.Sources, r.Source)
		}
	}
	sort.Strings(answer.Sources)

	text, err := u.synth.GenerateResponse(question, answer.ContextChunks)
	if err != nil {
		return answer, fmt.Errorf("answer synthesis failed: %w", err)
	}
	answer.Answer = text

	if u.answerCch != nil {
		u.answerCch.Put(question, u.topK, answer)
	}

	return answer, nil
}
