// Command corpus is the document pipeline CLI.
//
// main wires the adapters to the core services: a TOML config store,
// a filesystem content store, a SQLite metadata store, the extractor
// registry, the chunker, an embedding service (hash by default, Ollama
// when configured), and an in-memory vector index rebuilt at startup.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/halcyon-labs/corpus-cli/internal/adapters/driven/config/file"
	contentfs "github.com/halcyon-labs/corpus-cli/internal/adapters/driven/contentstore/fs"
	"github.com/halcyon-labs/corpus-cli/internal/adapters/driven/embedding/hash"
	"github.com/halcyon-labs/corpus-cli/internal/adapters/driven/embedding/ollama"
	"github.com/halcyon-labs/corpus-cli/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/halcyon-labs/corpus-cli/internal/adapters/driven/vector/memory"
	"github.com/halcyon-labs/corpus-cli/internal/adapters/driving/cli"
	"github.com/halcyon-labs/corpus-cli/internal/chunker"
	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
	"github.com/halcyon-labs/corpus-cli/internal/core/services"
	"github.com/halcyon-labs/corpus-cli/internal/extractors"
	"github.com/halcyon-labs/corpus-cli/internal/extractors/html"
	"github.com/halcyon-labs/corpus-cli/internal/extractors/markdown"
	"github.com/halcyon-labs/corpus-cli/internal/extractors/plaintext"
	"github.com/halcyon-labs/corpus-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := config.GetString(configfile.KeyDataDir)
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	content, err := contentfs.NewStore(filepath.Join(dataDir, "content"))
	if err != nil {
		return fmt.Errorf("opening content store: %w", err)
	}

	meta, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer meta.Close()

	embedder := newEmbedder(config)
	defer embedder.Close()

	registry := extractors.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
	)

	vectors := vectormem.NewIndex()

	pipeline := services.NewPipelineService(
		content,
		registry,
		chunker.New(),
		embedder,
		vectors,
		meta,
		chunkPolicy(config),
	)
	search := services.NewSearchService(embedder, vectors, meta)

	// The vector index lives in process memory; rebuild it from the
	// published chunks so search sees documents from earlier runs.
	if err := pipeline.Reindex(context.Background()); err != nil {
		logger.Warn("Rebuilding embedding index: %v", err)
	}

	cli.SetServices(pipeline, search, config)
	cli.SetVersion(version)
	return cli.Execute()
}

// newEmbedder builds the configured embedding service.
func newEmbedder(config driven.ConfigStore) driven.EmbeddingService {
	if config.GetString(configfile.KeyEmbedderKind) == "ollama" {
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           config.GetString(configfile.KeyOllamaBaseURL),
			Model:             config.GetString(configfile.KeyOllamaModel),
			Dimensions:        config.GetInt(configfile.KeyEmbedderDims),
			RequestsPerSecond: float64(config.GetInt(configfile.KeyOllamaRPS)),
		})
	}
	return hash.NewEmbeddingService(config.GetInt(configfile.KeyEmbedderDims))
}

// chunkPolicy reads the chunking policy from config, falling back to
// the defaults when unset or invalid.
func chunkPolicy(config driven.ConfigStore) domain.ChunkPolicy {
	policy := domain.DefaultChunkPolicy()
	if size := config.GetInt(configfile.KeyChunkMaxSize); size > 0 {
		policy.MaxChunkSize = size
	}
	if overlap := config.GetInt(configfile.KeyChunkOverlap); overlap > 0 {
		policy.Overlap = overlap
	}
	if err := policy.Validate(); err != nil {
		logger.Warn("Invalid chunk policy in config, using defaults: %v", err)
		return domain.DefaultChunkPolicy()
	}
	return policy
}
