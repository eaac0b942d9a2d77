package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/chunker"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, string(chunker.StrategyRecursive), cfg.Chunking.Strategy)
	assert.Equal(t, chunker.DefaultChunkSize, cfg.Chunking.Size)
	assert.Equal(t, chunker.DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 5, cfg.Retrieval.OverFetchMultiplier)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[chunking]
strategy = "token"
size = 512
overlap = 64

[retrieval]
collection = "notes"
top_k = 5
over_fetch_multiplier = 4
use_reranking = true

[embedding]
provider = "openai"
model = "text-embedding-3-small"
api_key = "sk-from-file"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Chunking.Strategy)
	assert.Equal(t, 512, cfg.Chunking.Size)
	assert.Equal(t, 64, cfg.Chunking.Overlap)
	assert.Equal(t, "notes", cfg.Retrieval.Collection)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 4, cfg.Retrieval.OverFetchMultiplier)
	assert.True(t, cfg.Retrieval.UseReranking)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "sk-from-file", cfg.Embedding.APIKey)
}

func TestLoad_EnvKeyOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[embedding]
provider = "openai"
api_key = "sk-from-file"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Embedding.APIKey)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown strategy", "[chunking]\nstrategy = \"clever\"\nsize = 100\n"},
		{"zero top_k", "[retrieval]\ntop_k = -1\n"},
		{"unknown provider", "[embedding]\nprovider = \"bert\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tt.content), 0600))

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.Retrieval.TopK = 7
	cfg.Watch.Dir = "/docs/inbox"
	require.NoError(t, cfg.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Retrieval.TopK)
	assert.Equal(t, "/docs/inbox", reloaded.Watch.Dir)
}
