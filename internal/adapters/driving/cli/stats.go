package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Long:  `Prints the collection name, chunk count, embedding model and chunking settings.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Collection:      %s\n", stats.CollectionName)
	cmd.Printf("Indexed chunks:  %d\n", stats.TotalChunks)
	cmd.Printf("Embedding model: %s\n", stats.EmbeddingModel)
	cmd.Printf("Chunk size:      %d\n", stats.ChunkSize)
	cmd.Printf("Chunk overlap:   %d\n", stats.ChunkOverlap)
	return nil
}
