package cli

import (
	"fmt"
	"time"

	"ragagent/config"
	"ragagent/internal/adapter/analyzer"
	"ragagent/internal/adapter/cache"
	"ragagent/internal/adapter/chunker"
	"ragagent/internal/adapter/embedding"
	"ragagent/internal/adapter/llm"
	"ragagent/internal/adapter/store"
	"ragagent/internal/port"
)

// newEmbedder builds the configured primary embedding provider.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "deepseek":
		return embedding.NewDeepSeekEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "jina":
		return embedding.NewJinaEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "local":
		return embedding.NewLocalEmbedder(cfg.Embedding.Dimension), nil
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newFallbackEmbedder builds the local in-process provider used when the
// primary fails. When the primary already runs in-process there is nothing
// sensible to fall back to.
func newFallbackEmbedder(cfg *config.Config) port.Embedder {
	if cfg.Embedding.Provider == "local" || cfg.Embedding.Provider == "mock" {
		return nil
	}
	return embedding.NewLocalEmbedder(cfg.Embedding.FallbackDimension)
}

// newChunker builds the configured chunking strategy. Sentence chunking
// falls back to window chunking when segmentation fails; the recorder
// captures those fallbacks.
func newChunker(cfg *config.Config, recorder *chunker.FallbackRecorder) (port.Chunker, error) {
	window := chunker.NewWindowChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)

	switch cfg.Chunking.Strategy {
	case "window":
		return window, nil
	case "sentence", "":
		return chunker.NewSentenceChunker(
			analyzer.NewSentenceSegmenter(),
			cfg.Chunking.SentencesPerChunk,
			window,
			recorder.Record,
		), nil
	default:
		return nil, fmt.Errorf("unsupported chunking strategy: %s", cfg.Chunking.Strategy)
	}
}

// openIndex opens the vector index for the working directory.
func openIndex(rootDir string, cfg *config.Config) (*store.BoltVectorIndex, error) {
	path := cfg.Store.Path
	if path == "" {
		if err := config.EnsureDataDir(rootDir); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path = config.IndexDBPath(rootDir)
	}
	return store.NewBoltVectorIndex(path)
}

func newSynthesizer(cfg *config.Config) port.Synthesizer {
	return llm.NewOllamaSynthesizer(
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		llm.GenParams{
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
			MaxTokens:   cfg.LLM.MaxTokens,
		},
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)
}

func newAnswerCache(cfg *config.Config) *cache.AnswerCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return cache.NewAnswerCache(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
}
