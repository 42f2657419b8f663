package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the RAG agent.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Cache     CacheConfig     `yaml:"cache"`
}

// StoreConfig holds vector index persistence configuration.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ChunkingConfig holds chunking strategy configuration.
type ChunkingConfig struct {
	Strategy          string `yaml:"strategy"` // "sentence" or "window"
	ChunkSize         int    `yaml:"chunk_size"`
	ChunkOverlap      int    `yaml:"chunk_overlap"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider          string `yaml:"provider"` // "ollama", "openai", "deepseek", "jina", "local", "mock"
	Model             string `yaml:"model"`
	BaseURL           string `yaml:"base_url"`
	APIKeyEnv         string `yaml:"api_key_env"` // Environment variable for API key
	Dimension         int    `yaml:"dimension"`   // Used by local and mock providers
	FallbackDimension int    `yaml:"fallback_dimension"`
}

// LLMConfig holds language model configuration.
type LLMConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	TopP           float64 `yaml:"top_p"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// IngestConfig holds directory ingestion patterns.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// CacheConfig holds answer cache configuration.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "", // Resolved per-directory via IndexDBPath when empty
		},
		Chunking: ChunkingConfig{
			Strategy:          "sentence",
			ChunkSize:         1000,
			ChunkOverlap:      200,
			SentencesPerChunk: 8,
		},
		Embedding: EmbeddingConfig{
			Provider:          "ollama",
			Model:             "nomic-embed-text",
			BaseURL:           "",
			APIKeyEnv:         "OPENAI_API_KEY",
			Dimension:         384,
			FallbackDimension: 384,
		},
		LLM: LLMConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3.2:3b",
			Temperature:    0.1,
			TopP:           0.9,
			MaxTokens:      500,
			TimeoutSeconds: 120,
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Ingest: IngestConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/node_modules/**", "**/.ragagent/**"},
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 100,
			TTLSeconds: 300,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ragagent.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ragagent.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".ragagent", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the index database for a directory.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".ragagent", "index.db")
}

// EnsureDataDir ensures the .ragagent directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".ragagent"), 0755)
}
