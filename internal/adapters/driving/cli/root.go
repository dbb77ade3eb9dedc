// Package cli implements the corpus command-line interface using Cobra.
// Commands delegate to the core services injected by the composition
// root; the package holds no business logic of its own.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driving"
	"github.com/halcyon-labs/corpus-cli/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// Services injected by the composition root. Commands guard against a
// nil service so the CLI degrades gracefully in partial setups.
var (
	pipelineService driving.PipelineService
	searchService   driving.SearchService
	configStore     driven.ConfigStore
)

// Persistent flags.
var (
	verboseFlag bool
	ownerFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Document ingestion and retrieval pipeline",
	Long: `Corpus ingests documents, extracts and chunks their text, indexes
embeddings for each chunk, and serves consistent reads of the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&ownerFlag, "owner", "o", "", "Owner identity (defaults to configured owner)")
}

// SetServices injects the core services. Call before Execute.
func SetServices(pipeline driving.PipelineService, search driving.SearchService, config driven.ConfigStore) {
	pipelineService = pipeline
	searchService = search
	configStore = config
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// currentOwner resolves the owner identity for a command invocation:
// the --owner flag, then the configured default, then the OS user.
func currentOwner() string {
	if ownerFlag != "" {
		return ownerFlag
	}
	if configStore != nil {
		if owner := configStore.GetString(keyDefaultOwner); owner != "" {
			return owner
		}
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "default"
}

// keyDefaultOwner mirrors the config key used by the file config store.
const keyDefaultOwner = "owner.default"
