package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/domain"
)

type fakeQuerier struct {
	records  []domain.ContextRecord
	err      error
	lastKind domain.SourceKind
	lastK    int
}

func (q *fakeQuerier) Query(ctx context.Context, text string, k int, kind domain.SourceKind) ([]domain.ContextRecord, error) {
	q.lastKind = kind
	q.lastK = k
	return q.records, q.err
}

func TestRetrievalService_Retrieve(t *testing.T) {
	querier := &fakeQuerier{records: []domain.ContextRecord{
		{Content: "first"},
		{Content: "second"},
	}}
	svc := NewRetrievalService(querier)

	records := svc.Retrieve(context.Background(), "question", 5, domain.ScopeAll)

	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Content)
	assert.Equal(t, domain.SourceKind(""), querier.lastKind)
	assert.Equal(t, 5, querier.lastK)
}

func TestRetrievalService_Retrieve_ScopeMapping(t *testing.T) {
	tests := []struct {
		scope domain.Scope
		kind  domain.SourceKind
	}{
		{domain.ScopeAll, ""},
		{domain.ScopeWeb, domain.SourceKindWeb},
		{domain.ScopePDF, domain.SourceKindPDF},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			querier := &fakeQuerier{}
			svc := NewRetrievalService(querier)

			svc.Retrieve(context.Background(), "q", 3, tt.scope)

			assert.Equal(t, tt.kind, querier.lastKind)
		})
	}
}

func TestRetrievalService_Retrieve_ErrorYieldsEmpty(t *testing.T) {
	querier := &fakeQuerier{err: errors.New("index down")}
	svc := NewRetrievalService(querier)

	records := svc.Retrieve(context.Background(), "question", 5, domain.ScopeAll)

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRetrievalService_Retrieve_NilResultYieldsEmpty(t *testing.T) {
	svc := NewRetrievalService(&fakeQuerier{})

	records := svc.Retrieve(context.Background(), "question", 5, domain.ScopeAll)

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRetrievalService_Retrieve_TruncatesToK(t *testing.T) {
	querier := &fakeQuerier{records: []domain.ContextRecord{
		{Content: "a"}, {Content: "b"}, {Content: "c"},
	}}
	svc := NewRetrievalService(querier)

	records := svc.Retrieve(context.Background(), "question", 2, domain.ScopeAll)

	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Content)
	assert.Equal(t, "b", records[1].Content)
}
