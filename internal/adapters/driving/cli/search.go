package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchRerank  bool
	searchSession string
	searchSource  string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve relevant passages for a query",
	Long: `Embeds the query, searches the vector store for the nearest chunks
and prints the top results. With --rerank, a larger candidate pool is
fetched and re-scored by the cross-encoder for higher precision.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "re-rank candidates with the cross-encoder")
	searchCmd.Flags().StringVar(&searchSession, "session", "", "only return chunks from this session")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "only return chunks from this source")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	filter := domain.Metadata{}
	if searchSession != "" {
		filter[domain.MetaSessionID] = searchSession
	}
	if searchSource != "" {
		filter[domain.MetaSource] = searchSource
	}

	rerank := searchRerank
	if !cmd.Flags().Changed("rerank") && cfg != nil {
		rerank = cfg.Retrieval.UseReranking
	}

	opts := domain.SearchOptions{
		K:            searchLimit,
		UseReranking: rerank,
		Filter:       filter,
	}

	results, err := retrievalService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchList(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.CandidateResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, results []domain.CandidateResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		score := fmt.Sprintf("%.3f", results[i].SimilarityScore)
		if results[i].RerankScore != nil {
			score = fmt.Sprintf("%.3f, rerank %.3f", results[i].SimilarityScore, *results[i].RerankScore)
		}

		origin := results[i].Metadata[domain.MetaSource]
		if page := results[i].Metadata[domain.MetaPage]; page != "" {
			origin += " p." + page
		}

		cmd.Printf("  [%d] %s (%s)\n", i+1, origin, score)
		cmd.Printf("      %s\n", results[i].Content)
		cmd.Println()
	}

	return nil
}
