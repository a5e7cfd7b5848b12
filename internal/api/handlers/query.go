package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/docsage/docsage/internal/api"
	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/service"
)

// QueryHandler serves the question answering endpoints.
type QueryHandler struct {
	answers    *service.AnswerService
	retrieval  *service.RetrievalService
	technology string
	defaultK   int
}

func NewQueryHandler(answers *service.AnswerService, retrieval *service.RetrievalService, technology string, defaultK int) *QueryHandler {
	if defaultK <= 0 {
		defaultK = 5
	}
	return &QueryHandler{
		answers:    answers,
		retrieval:  retrieval,
		technology: technology,
		defaultK:   defaultK,
	}
}

type queryRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchScope string `json:"search_scope"`
}

type queryResponse struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	ContextChunks int      `json:"context_chunks"`
	Technology    string   `json:"technology"`
}

// Query handles POST /query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.HandleError(w, domain.ErrEmptyQuery)
		return
	}

	scope := domain.ParseScope(req.SearchScope)
	result := h.answers.Answer(r.Context(), req.Query, scope)

	api.JSON(w, http.StatusOK, queryResponse{
		Answer:        result.Answer,
		Sources:       result.Sources,
		ContextChunks: result.ContextChunks,
		Technology:    h.technology,
	})
}

type retrieveResponse struct {
	Results    []contextResult `json:"results"`
	Technology string          `json:"technology"`
}

type contextResult struct {
	Content  string          `json:"content"`
	Metadata contextMetadata `json:"metadata"`
	Distance *float64        `json:"distance,omitempty"`
}

type contextMetadata struct {
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	Source     string `json:"source,omitempty"`
	Guide      string `json:"guide,omitempty"`
	Filename   string `json:"filename,omitempty"`
	SourceType string `json:"source_type"`
	ChunkIndex int    `json:"chunk_index"`
	PageCount  int    `json:"page_count,omitempty"`
	Author     string `json:"author,omitempty"`
}

// Retrieve handles POST /retrieve, exposing raw context records without
// generation. Useful for debugging relevance and for downstream clients
// that run their own synthesis.
func (h *QueryHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.HandleError(w, domain.ErrEmptyQuery)
		return
	}

	k := req.MaxResults
	if k <= 0 {
		k = h.defaultK
	}
	scope := domain.ParseScope(req.SearchScope)

	records := h.retrieval.Retrieve(r.Context(), req.Query, k, scope)

	results := make([]contextResult, 0, len(records))
	for _, rec := range records {
		results = append(results, contextResult{
			Content: rec.Content,
			Metadata: contextMetadata{
				Title:      rec.Metadata.Title,
				URL:        rec.Metadata.OriginURL,
				Source:     rec.Metadata.SourceName,
				Guide:      rec.Metadata.Guide,
				Filename:   rec.Metadata.Filename,
				SourceType: string(rec.Metadata.Kind),
				ChunkIndex: rec.Metadata.ChunkIndex,
				PageCount:  rec.Metadata.PageCount,
				Author:     rec.Metadata.Author,
			},
			Distance: rec.Distance,
		})
	}

	api.JSON(w, http.StatusOK, retrieveResponse{
		Results:    results,
		Technology: h.technology,
	})
}
