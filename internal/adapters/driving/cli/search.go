package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search your documents",
	Long:  `Embeds the query and returns the most similar chunks across your ready documents.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := strings.Join(args, " ")
	results, err := searchService.Search(context.Background(), currentOwner(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No results")
		return nil
	}

	for i, result := range results {
		cmd.Printf("%d. %s (score %.3f)\n", i+1, result.DocumentTitle, result.Score)
		cmd.Printf("   %s\n", preview(result.Chunk.Content, 120))
		cmd.Printf("   doc %s, chunk %d\n\n", result.DocumentID, result.Chunk.Position)
	}
	return nil
}
