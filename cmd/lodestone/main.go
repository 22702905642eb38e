// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/quarrylabs/lodestone"
	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/ingestion"
	"github.com/quarrylabs/lodestone/reindex"
	"github.com/quarrylabs/lodestone/vectorindex/qdrant"
)

func main() {
	app := &cli.App{
		Name:  "lodestone",
		Usage: "Document ingestion, semantic search, and knowledge graph extraction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Data directory for relational and blob storage",
				Value:   "./data",
				EnvVars: []string{"LODESTONE_DATA"},
			},
			&cli.StringFlag{
				Name:    "qdrant-host",
				Usage:   "Qdrant host",
				Value:   "localhost",
				EnvVars: []string{"QDRANT_HOST"},
			},
			&cli.IntFlag{
				Name:    "qdrant-port",
				Usage:   "Qdrant gRPC port",
				Value:   6334,
				EnvVars: []string{"QDRANT_PORT"},
			},
			&cli.StringFlag{
				Name:    "collection",
				Usage:   "Qdrant collection name",
				Value:   "documents",
				EnvVars: []string{"QDRANT_COLLECTION"},
			},
			&cli.Uint64Flag{
				Name:    "dimension",
				Usage:   "Embedding vector dimension",
				Value:   768,
				EnvVars: []string{"EMBEDDING_DIMENSION"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "extractor-host",
				Usage:   "Graph extraction service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"EXTRACTOR_HOST"},
			},
			&cli.StringFlag{
				Name:    "extractor-model",
				Usage:   "Graph extraction model name",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"EXTRACTOR_MODEL"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document file",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title (defaults to the file name)",
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Document id (defaults to a content hash)",
					},
					&cli.StringFlag{
						Name:    "user",
						Usage:   "Caller identity for content storage keys",
						Value:   "local",
						EnvVars: []string{"LODESTONE_USER"},
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search ingested documents",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of matches to return",
						Value:   5,
					},
				},
			},
			{
				Name:   "graph",
				Usage:  "Print the knowledge graph view",
				Action: graphCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed all stored documents and rebuild the vector index",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Usage:   "Caller identity whose documents are reindexed",
						Value:   "local",
						EnvVars: []string{"LODESTONE_USER"},
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env if present and configures the default logger.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openDatabase(ctx context.Context, c *cli.Context) (*lodestone.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorHost(c.String("extractor-host")),
		ai.WithExtractorModel(c.String("extractor-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	qdrantConfig := &qdrant.Config{
		Host:       c.String("qdrant-host"),
		Port:       c.Int("qdrant-port"),
		Collection: c.String("collection"),
		Dimension:  c.Uint64("dimension"),
	}

	return lodestone.NewDatabase(ctx, c.String("data"),
		lodestone.WithAIConfig(aiConfig),
		lodestone.WithQdrantConfig(qdrantConfig),
	)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	title := c.String("title")
	if title == "" {
		title = filepath.Base(path)
	}

	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	result, err := pipeline.Ingest(ctx, &ingestion.Request{
		UserID:     c.String("user"),
		DocumentID: c.String("id"),
		Title:      title,
		Content:    string(content),
		Filename:   filepath.Base(path),
	})
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	fmt.Printf("Ingested %s\n", result.DocumentID)
	fmt.Printf("  chunks:      %d\n", result.ChunkCount)
	fmt.Printf("  graph nodes: %d\n", result.GraphNodeCount)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("expected a query argument")
	}
	query := strings.Join(c.Args().Slice(), " ")

	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(ctx, query, c.Int("top-k"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, result := range results {
		fmt.Printf("%d. [%.3f] %s (%s, chunk %d)\n", i+1, result.Score,
			result.Title, result.DocumentID, result.ChunkIndex)
		fmt.Printf("   %s\n", truncate(result.ChunkText, 160))
	}
	return nil
}

func graphCommand(c *cli.Context) error {
	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	viewer, err := db.NewGraphViewer()
	if err != nil {
		return err
	}

	view, err := viewer.View(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d nodes, %d edges\n", len(view.Nodes), len(view.Edges))
	for _, node := range view.Nodes {
		fmt.Printf("  [%s] %s\n", node.Group, node.Label)
	}
	for _, edge := range view.Edges {
		fmt.Printf("  %s --%s--> %s\n", edge.Source, edge.Relation, edge.Target)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := reindex.DefaultConfig()
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")
	config.ReportInterval = c.Int("report-interval")

	reindexer := reindex.NewReindexer(
		db.DocumentRepository(), db.BlobStore(), db.VectorIndex(),
		db.Provider().Embedder(), config, os.Stderr)

	stats, err := reindexer.Run(ctx, c.String("user"))
	if err != nil {
		return err
	}

	fmt.Printf("Reindexed %d documents (%d chunks), skipped %d, failed %d\n",
		stats.Documents, stats.Chunks, stats.Skipped, stats.Failed)
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
