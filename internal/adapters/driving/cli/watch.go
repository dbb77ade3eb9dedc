package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/halcyon-labs/corpus-cli/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a directory in sync with the pipeline",
	Long: `Ingests every file in the directory, then watches for changes:
new and modified files are (re)processed, removed files are deleted.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(pipelineService, currentOwner())

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	err := w.Watch(ctx, args[0])
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
