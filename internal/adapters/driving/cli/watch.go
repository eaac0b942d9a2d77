package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Auto-ingest documents dropped into a directory",
	Long: `Watches a directory and indexes every supported file (.txt, .pdf)
created or modified in it. Runs until interrupted.

Without an argument the configured watch.dir is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else if cfg != nil {
		dir = cfg.Watch.Dir
	}
	if dir == "" {
		return errors.New("pass a directory or set watch.dir in the config")
	}

	w, err := watcher.New(retrievalService, dir)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", dir)
	return w.Run(cmd.Context())
}
