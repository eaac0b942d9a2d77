package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the whole collection",
	Long: `Removes every indexed chunk from the collection.

This cannot be undone; re-ingest the documents to rebuild the index.`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	if !deleteYes {
		cmd.Print("Delete the whole collection? [y/N]: ")
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer) //nolint:errcheck
		if answer != "y" && answer != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	result := retrievalService.DeleteCollection(cmd.Context())
	if result.Status == domain.IngestError {
		return fmt.Errorf("delete failed: %s", result.Message)
	}

	cmd.Println("Collection deleted.")
	return nil
}
