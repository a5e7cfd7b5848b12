package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/config"
	"github.com/docsage/docsage/internal/corpus"
	"github.com/docsage/docsage/internal/database"
	"github.com/docsage/docsage/internal/extract"
	"github.com/docsage/docsage/internal/repository"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index and corpus status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	chunkRepo := repository.NewChunkRepository(pool)
	count, err := chunkRepo.Count(ctx, cfg.CollectionName())
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	reader := corpus.NewReader(cfg.Technology, cfg.DocsDir, cfg.BooksDir, extract.New())
	books, err := reader.BookCount()
	if err != nil {
		books = 0
	}

	fmt.Printf("Technology:  %s\n", cfg.Technology)
	fmt.Printf("Collection:  %s\n", cfg.CollectionName())
	fmt.Printf("Chunks:      %d\n", count)
	fmt.Printf("Books:       %d\n", books)
	fmt.Printf("Ollama:      %s (model: %s)\n", cfg.OllamaBaseURL, cfg.OllamaModel)
	return nil
}
