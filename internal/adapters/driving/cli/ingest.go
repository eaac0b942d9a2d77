package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	ingestText    string
	ingestSession string
	ingestSource  string
	ingestJSON    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a document into the collection",
	Long: `Chunks, embeds and indexes a document so it becomes searchable.

Pass a path to a .txt or .pdf file, or use --text to index inline text.
PDF chunks carry their page number in metadata.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "index this text instead of a file")
	ingestCmd.Flags().StringVar(&ingestSession, "session", "", "session id recorded with every chunk")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source label recorded with every chunk")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	if ingestText == "" && len(args) == 0 {
		return errors.New("pass a file path or --text")
	}
	if ingestText != "" && len(args) > 0 {
		return errors.New("a file path and --text are mutually exclusive")
	}

	extra := domain.Metadata{}
	if ingestSession != "" {
		extra[domain.MetaSessionID] = ingestSession
	}
	if ingestSource != "" {
		extra[domain.MetaSource] = ingestSource
	}

	var result domain.IngestResult
	if ingestText != "" {
		result = retrievalService.IngestDocument(cmd.Context(), ingestText, domain.FileTypeTXT, extra)
	} else {
		result = retrievalService.IngestFile(cmd.Context(), args[0], extra)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		if result.Status == domain.IngestError {
			return errors.New("ingest failed")
		}
		return nil
	}

	if result.Status == domain.IngestError {
		return fmt.Errorf("ingest failed: %s", result.Message)
	}

	cmd.Printf("Indexed %d chunks.\n", result.Chunks)
	return nil
}
