package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driving"
	"github.com/halcyon-labs/corpus-cli/internal/extractors"
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Ingest a document",
	Long: `Reads the file, stores its content, and runs the processing pipeline
(extract, chunk, embed). Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var getCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var updateCmd = &cobra.Command{
	Use:   "update [doc-id]",
	Short: "Update a document's title or content",
	Long: `Title updates touch metadata only. Content updates re-run the full
processing pipeline; the previous version stays visible until the new
one is fully published.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and all derived state",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var chunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Show a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

// Flags for add and update.
var (
	addTitle        string
	addMediaType    string
	updateTitle     string
	updateFile      string
	updateMediaType string
)

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Document title (defaults to the file name)")
	addCmd.Flags().StringVarP(&addMediaType, "media-type", "m", "", "Declared media type (defaults by extension)")

	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "File with the new content")
	updateCmd.Flags().StringVarP(&updateMediaType, "media-type", "m", "", "Media type for the new content")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(chunksCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	path := args[0]
	ctx := context.Background()

	var content []byte
	var err error
	if path == "-" {
		content, err = readAll(cmd)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	}

	title := addTitle
	if title == "" {
		if path == "-" {
			title = "stdin"
		} else {
			title = filepath.Base(path)
		}
	}

	mediaType := addMediaType
	if mediaType == "" {
		mediaType = extractors.MediaTypeForPath(path)
	}

	doc, err := pipelineService.Create(ctx, currentOwner(), title, content, mediaType)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	printDocument(cmd, doc)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	doc, err := pipelineService.Get(context.Background(), currentOwner(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	printDocument(cmd, doc)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	docs, err := pipelineService.List(context.Background(), currentOwner())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:  %s\n", docs[i].Title)
		cmd.Printf("    Status: %s\n", docs[i].Status)
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	req := driving.UpdateRequest{}
	if updateTitle != "" {
		title := updateTitle
		req.Title = &title
	}
	if updateFile != "" {
		content, err := os.ReadFile(updateFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		req.Content = content
		req.MediaType = updateMediaType
		if req.MediaType == "" {
			req.MediaType = extractors.MediaTypeForPath(updateFile)
		}
	}
	if req.Title == nil && req.Content == nil {
		return errors.New("nothing to update: pass --title and/or --file")
	}

	doc, err := pipelineService.Update(context.Background(), currentOwner(), args[0], req)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	printDocument(cmd, doc)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	if err := pipelineService.Delete(context.Background(), currentOwner(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runChunks(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	chunks, err := pipelineService.GetChunks(context.Background(), currentOwner(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks")
		return nil
	}

	for _, chunk := range chunks {
		cmd.Printf("[%d] (%d-%d) %s\n", chunk.Position, chunk.StartOffset, chunk.EndOffset, preview(chunk.Content, 80))
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

// printDocument renders a document record.
func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:   %s\n", doc.Title)
	cmd.Printf("  Type:    %s\n", doc.MediaType)
	cmd.Printf("  Status:  %s\n", doc.Status)
	if doc.Status == domain.StatusFailed && doc.FailureReason != "" {
		cmd.Printf("  Reason:  %s\n", doc.FailureReason)
	}
	cmd.Printf("  Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated: %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
}

// preview truncates text for single-line display.
func preview(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// readAll drains the command's stdin.
func readAll(cmd *cobra.Command) ([]byte, error) {
	return io.ReadAll(cmd.InOrStdin())
}
