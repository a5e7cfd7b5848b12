package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	openaiapi "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/api/handlers"
	"github.com/docsage/docsage/internal/config"
	"github.com/docsage/docsage/internal/corpus"
	"github.com/docsage/docsage/internal/database"
	"github.com/docsage/docsage/internal/extract"
	"github.com/docsage/docsage/internal/ollama"
	"github.com/docsage/docsage/internal/openai"
	"github.com/docsage/docsage/internal/repository"
	"github.com/docsage/docsage/internal/server"
	"github.com/docsage/docsage/internal/service"
	"github.com/docsage/docsage/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the docsage query API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	embedder := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.EmbeddingBaseURL,
		EmbeddingModel:      openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	generator := ollama.NewClient(ollama.Config{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.OllamaModel,
	})

	reader := corpus.NewReader(cfg.Technology, cfg.DocsDir, cfg.BooksDir, extract.New())

	chunkRepo := repository.NewChunkRepository(pool)
	index := service.NewIndexService(chunkRepo, embedder, indexConfig(cfg))
	retrieval := service.NewRetrievalService(index)
	answers := service.NewAnswerService(retrieval, generator, cfg.Technology, cfg.RetrievalK)

	routerCfg := server.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(index, reader, generator, cfg.Technology),
		QueryHandler:  handlers.NewQueryHandler(answers, retrieval, cfg.Technology, cfg.RetrievalK),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s (technology: %s, collection: %s)",
			cfg.Port, cfg.Technology, cfg.CollectionName())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func indexConfig(cfg *config.Config) service.IndexConfig {
	return service.IndexConfig{
		Collection: cfg.CollectionName(),
		WebProfile: service.ChunkProfile{
			Size:     cfg.WebChunkSize,
			Overlap:  cfg.WebChunkOverlap,
			MinChars: cfg.WebChunkMinChars,
		},
		BookProfile: service.ChunkProfile{
			Size:     cfg.BookChunkSize,
			Overlap:  cfg.BookChunkOverlap,
			MinChars: cfg.BookChunkMinChars,
		},
		WebBatchSize:  100,
		BookBatchSize: 50,
	}
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
