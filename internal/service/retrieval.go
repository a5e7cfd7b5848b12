package service

import (
	"context"
	"log"

	"github.com/docsage/docsage/internal/domain"
)

// ContextQuerier is the slice of the index the retrieval engine needs.
type ContextQuerier interface {
	Query(ctx context.Context, text string, k int, kind domain.SourceKind) ([]domain.ContextRecord, error)
}

// RetrievalService issues scoped similarity queries and shapes the results
// into ranked context records. It is the soft-fail boundary of the answer
// path: index failures become empty result sets, never errors.
type RetrievalService struct {
	index ContextQuerier
}

func NewRetrievalService(index ContextQuerier) *RetrievalService {
	return &RetrievalService{index: index}
}

// Retrieve returns up to k context records for the query, most similar
// first. Scope restricts results to web or book chunks; any failure in the
// underlying query yields an empty slice.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int, scope domain.Scope) []domain.ContextRecord {
	kind, _ := scope.KindFilter()

	records, err := s.index.Query(ctx, query, k, kind)
	if err != nil {
		log.Printf("retrieval: query failed, returning no context: %v", err)
		return []domain.ContextRecord{}
	}
	if records == nil {
		return []domain.ContextRecord{}
	}
	if len(records) > k && k > 0 {
		records = records[:k]
	}
	return records
}
