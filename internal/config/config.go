package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Corpus location and identity. Technology names the corpus and its
	// collection; one deployment serves one technology.
	Technology string `envconfig:"TECHNOLOGY" default:"proxmox"`
	DocsDir    string `envconfig:"DOCS_DIR" default:"./docs"`
	BooksDir   string `envconfig:"BOOKS_DIR" default:"./books"`
	Collection string `envconfig:"COLLECTION"`

	OllamaBaseURL string `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaModel   string `envconfig:"OLLAMA_MODEL" default:"mistral"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingBaseURL    string `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	WebChunkSize     int `envconfig:"WEB_CHUNK_SIZE" default:"1200"`
	WebChunkOverlap  int `envconfig:"WEB_CHUNK_OVERLAP" default:"200"`
	WebChunkMinChars int `envconfig:"WEB_CHUNK_MIN_CHARS" default:"100"`

	BookChunkSize     int `envconfig:"BOOK_CHUNK_SIZE" default:"1500"`
	BookChunkOverlap  int `envconfig:"BOOK_CHUNK_OVERLAP" default:"300"`
	BookChunkMinChars int `envconfig:"BOOK_CHUNK_MIN_CHARS" default:"150"`

	RetrievalK int `envconfig:"RETRIEVAL_K" default:"5"`

	// Optional S3-compatible store holding book bundles synced before indexing
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"docsage-books"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DOCSAGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// CollectionName returns the configured collection, defaulting to
// "<technology>_docs" so each technology corpus lands in its own collection.
func (c *Config) CollectionName() string {
	if c.Collection != "" {
		return c.Collection
	}
	return c.Technology + "_docs"
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
