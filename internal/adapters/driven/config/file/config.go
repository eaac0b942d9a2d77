// Package file loads and persists the TOML configuration file.
//
// Configuration lives at ~/.recall/config.toml by default. Every field
// has a working default so a missing file is not an error; the first
// explicit Save writes the full document with current values.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/recall-cli/internal/chunker"
)

// DefaultConfigDirName is the directory under $HOME holding the config
// file and the data directory.
const DefaultConfigDirName = ".recall"

// Config is the full configuration document.
type Config struct {
	// DataDir is where the SQLite database lives. Empty means
	// <configDir>/data.
	DataDir string `toml:"data_dir,omitempty"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Reranker  RerankerConfig  `toml:"reranker"`
	Watch     WatchConfig     `toml:"watch"`

	// path the config was loaded from, for Save.
	path string
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	Strategy string `toml:"strategy"`
	Size     int    `toml:"size"`
	Overlap  int    `toml:"overlap"`
}

// RetrievalConfig controls the query workflow.
type RetrievalConfig struct {
	Collection          string `toml:"collection"`
	TopK                int    `toml:"top_k"`
	OverFetchMultiplier int    `toml:"over_fetch_multiplier"`
	UseReranking        bool   `toml:"use_reranking"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url,omitempty"`
	Model    string `toml:"model,omitempty"`
	// APIKey for the openai provider. The OPENAI_API_KEY environment
	// variable takes precedence so keys can stay out of the file.
	APIKey string `toml:"api_key,omitempty"`
}

// RerankerConfig configures the cross-encoder endpoint.
type RerankerConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

// WatchConfig configures the document watch directory.
type WatchConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// Default returns a config populated with working defaults.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Strategy: string(chunker.StrategyRecursive),
			Size:     chunker.DefaultChunkSize,
			Overlap:  chunker.DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			Collection:          "documents",
			TopK:                3,
			OverFetchMultiplier: 5,
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
		},
	}
}

// Load reads the config from configDir. If configDir is empty,
// ~/.recall is used. A missing file yields the defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultConfigDirName)
	}

	cfg := Default()
	cfg.path = filepath.Join(configDir, "config.toml")
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(configDir, "data")
	}

	data, err := os.ReadFile(cfg.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.path, err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg.path, err)
	}

	return cfg, nil
}

// Save writes the config back to the file it was loaded from, creating
// the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// Restricted permissions, the file may hold an API key.
	return os.WriteFile(c.path, data, 0600)
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}

// Validate checks values that would otherwise fail deep inside the
// pipeline.
func (c *Config) Validate() error {
	if _, err := chunker.ParseStrategy(c.Chunking.Strategy); err != nil {
		return err
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must not be negative, got %d", c.Chunking.Overlap)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.OverFetchMultiplier <= 0 {
		return fmt.Errorf("retrieval.over_fetch_multiplier must be positive, got %d", c.Retrieval.OverFetchMultiplier)
	}
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("embedding.provider must be ollama or openai, got %q", c.Embedding.Provider)
	}
	return nil
}
