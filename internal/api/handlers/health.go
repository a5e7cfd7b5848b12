package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/docsage/docsage/internal/api"
)

// ChunkCounter reports how many chunks the index currently holds.
type ChunkCounter interface {
	Count(ctx context.Context) (int64, error)
}

// BookCounter reports how many book files the corpus directory contains.
type BookCounter interface {
	BookCount() (int, error)
}

// GenerationInfo exposes the generation backend identity for diagnostics.
type GenerationInfo interface {
	BaseURL() string
	Model() string
}

// HealthHandler serves GET /health. A reachable index makes the service
// healthy; an unreachable one reports 503 so load balancers stop routing
// queries at it.
type HealthHandler struct {
	index      ChunkCounter
	books      BookCounter
	generation GenerationInfo
	technology string
}

func NewHealthHandler(index ChunkCounter, books BookCounter, generation GenerationInfo, technology string) *HealthHandler {
	return &HealthHandler{
		index:      index,
		books:      books,
		generation: generation,
		technology: technology,
	}
}

type healthResponse struct {
	Status           string `json:"status"`
	Technology       string `json:"technology"`
	DocumentsIndexed int64  `json:"documents_indexed"`
	PDFBooks         int    `json:"pdf_books"`
	OllamaURL        string `json:"ollama_url"`
	Model            string `json:"model"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.index.Count(r.Context())
	if err != nil {
		log.Printf("health: index count failed: %v", err)
		api.Error(w, http.StatusServiceUnavailable, "vector index unavailable")
		return
	}

	books, err := h.books.BookCount()
	if err != nil {
		log.Printf("health: book count failed: %v", err)
		books = 0
	}

	api.JSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		Technology:       h.technology,
		DocumentsIndexed: count,
		PDFBooks:         books,
		OllamaURL:        h.generation.BaseURL(),
		Model:            h.generation.Model(),
	})
}
