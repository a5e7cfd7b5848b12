package admin

import (
	"context"
	"fmt"
	"log"

	openaiapi "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/config"
	"github.com/docsage/docsage/internal/corpus"
	"github.com/docsage/docsage/internal/database"
	"github.com/docsage/docsage/internal/extract"
	"github.com/docsage/docsage/internal/openai"
	"github.com/docsage/docsage/internal/repository"
	"github.com/docsage/docsage/internal/service"
	"github.com/docsage/docsage/internal/storage"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the vector index from the corpus directories",
		Long:  "Drop the collection and re-index every web document and book. With S3 configured, book files are synced from the bucket first.",
		RunE:  runIndex,
	}

	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")
	cmd.Flags().Bool("no-sync", false, "Skip syncing books from S3 even when configured")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
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

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	noSync, _ := cmd.Flags().GetBool("no-sync")
	if cfg.HasS3() && !noSync {
		store, err := storage.NewBookStore(ctx, storage.BookStoreConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create book store: %w", err)
		}
		synced, err := store.SyncTo(ctx, cfg.BooksDir)
		if err != nil {
			return fmt.Errorf("failed to sync books from S3: %w", err)
		}
		log.Printf("synced %d books from bucket %s", synced, cfg.S3Bucket)
	}

	embedder := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.EmbeddingBaseURL,
		EmbeddingModel:      openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	reader := corpus.NewReader(cfg.Technology, cfg.DocsDir, cfg.BooksDir, extract.New())
	chunkRepo := repository.NewChunkRepository(pool)
	index := service.NewIndexService(chunkRepo, embedder, indexConfig(cfg))

	log.Printf("rebuilding collection %s from %s and %s", cfg.CollectionName(), cfg.DocsDir, cfg.BooksDir)

	stats, err := index.RebuildAll(ctx, reader)
	if err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	fmt.Printf("Indexed %d chunks (%d web, %d book) into collection %s\n",
		stats.Total(), stats.WebChunks, stats.BookChunks, cfg.CollectionName())
	return nil
}
