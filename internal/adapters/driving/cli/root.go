// Package cli wires the cobra command tree and assembles the retrieval
// pipeline from configuration.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/openai"
	loaderfile "github.com/custodia-labs/recall-cli/internal/adapters/driven/loader/file"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/rerank/tei"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/logger"
	"github.com/custodia-labs/recall-cli/internal/reranker"
)

// version is set from main at build time.
var version = "dev"

var (
	verbose   bool
	configDir string

	cfg              *configfile.Config
	retrievalService driving.RetrievalService
	closers          []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Local retrieval pipeline for your documents",
	Long: `Recall indexes local documents into a vector store and retrieves
the most relevant passages for a query, optionally re-ranked with a
cross-encoder for higher precision.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.recall)")
}

// Execute runs the root command. The context cancels long-running
// commands (watch, mcp serve) on interrupt.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetRetrievalService injects a pre-built service, bypassing the
// config-driven wiring. Used by tests.
func SetRetrievalService(svc driving.RetrievalService) {
	retrievalService = svc
}

// initServices builds the retrieval pipeline from the config file. It
// runs before every command except the ones that need no services.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	if retrievalService != nil {
		return nil
	}

	var err error
	cfg, err = configfile.Load(configDir)
	if err != nil {
		return err
	}

	ch, err := chunker.New(
		chunker.WithStrategy(chunker.Strategy(cfg.Chunking.Strategy)),
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir, cfg.Retrieval.Collection)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	closers = append(closers, store)

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, embedder)

	scorer := tei.NewCrossEncoder(tei.Config{
		BaseURL: cfg.Reranker.BaseURL,
		Model:   cfg.Reranker.Model,
	})
	closers = append(closers, scorer)

	retrievalService = services.NewRetrievalService(
		ch, embedder, store, reranker.New(scorer),
		services.WithDefaultTopK(cfg.Retrieval.TopK),
		services.WithOverFetchMultiplier(cfg.Retrieval.OverFetchMultiplier),
		services.WithLoader(loaderfile.NewLoader()),
	)

	return nil
}

func buildEmbedder(cfg *configfile.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring openai embedder: %w", err)
		}
		return svc, nil
	default:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	}
}

func closeServices() {
	for _, c := range closers {
		c.Close() //nolint:errcheck
	}
	closers = nil
}
