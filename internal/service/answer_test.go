package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/domain"
)

type fakeRetriever struct {
	records   []domain.ContextRecord
	lastScope domain.Scope
	lastK     int
}

func (r *fakeRetriever) Retrieve(ctx context.Context, query string, k int, scope domain.Scope) []domain.ContextRecord {
	r.lastScope = scope
	r.lastK = k
	return r.records
}

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.response, g.err
}

func (g *fakeGenerator) BaseURL() string {
	return "http://localhost:11434"
}

func webRecord(title, content string) domain.ContextRecord {
	return domain.ContextRecord{
		Content: content,
		Metadata: domain.ChunkMetadata{
			Technology: "proxmox",
			Title:      title,
			Kind:       domain.SourceKindWeb,
		},
	}
}

func pdfRecord(filename, content string) domain.ContextRecord {
	return domain.ContextRecord{
		Content: content,
		Metadata: domain.ChunkMetadata{
			Technology: "proxmox",
			Title:      "Some Book",
			Filename:   filename,
			Kind:       domain.SourceKindPDF,
		},
	}
}

func TestAnswerService_NoContextFallback(t *testing.T) {
	svc := NewAnswerService(&fakeRetriever{}, &fakeGenerator{}, "proxmox", 5)

	result := svc.Answer(context.Background(), "how do I cluster?", domain.ScopeAll)

	assert.Equal(t, "No relevant proxmox documentation found for your question.", result.Answer)
	assert.Empty(t, result.Sources)
	assert.Zero(t, result.ContextChunks)
}

func TestAnswerService_PromptContainsContextAndQuestion(t *testing.T) {
	retriever := &fakeRetriever{records: []domain.ContextRecord{
		webRecord("Cluster Manager", "Use pvecm create to form a cluster."),
	}}
	generator := &fakeGenerator{response: "Run pvecm create."}
	svc := NewAnswerService(retriever, generator, "proxmox", 5)

	result := svc.Answer(context.Background(), "how do I cluster?", domain.ScopeAll)

	assert.Contains(t, generator.lastPrompt, "You are a PROXMOX expert.")
	assert.Contains(t, generator.lastPrompt, "Source: Cluster Manager")
	assert.Contains(t, generator.lastPrompt, "Content: Use pvecm create to form a cluster.")
	assert.Contains(t, generator.lastPrompt, "USER QUESTION: how do I cluster?")
	assert.Contains(t, generator.lastPrompt, "ANSWER:")

	assert.True(t, strings.HasPrefix(result.Answer, "Run pvecm create."))
	assert.Equal(t, 1, result.ContextChunks)
}

func TestAnswerService_SourceAttributionAndDedup(t *testing.T) {
	retriever := &fakeRetriever{records: []domain.ContextRecord{
		pdfRecord("mastering.pdf", "chunk one"),
		webRecord("Storage Guide", "chunk two"),
		pdfRecord("mastering.pdf", "chunk three"),
	}}
	generator := &fakeGenerator{response: "answer"}
	svc := NewAnswerService(retriever, generator, "proxmox", 5)

	result := svc.Answer(context.Background(), "question", domain.ScopeAll)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "📖 mastering.pdf", result.Sources[0])
	assert.Equal(t, "🌐 Storage Guide", result.Sources[1])

	assert.Contains(t, result.Answer, "\n\nPROXMOX Sources:\n")
	assert.Contains(t, result.Answer, "- 📖 mastering.pdf")
	assert.Contains(t, result.Answer, "- 🌐 Storage Guide")
	assert.Equal(t, 1, strings.Count(result.Answer, "mastering.pdf"))
	assert.Equal(t, 3, result.ContextChunks)
}

func TestAnswerService_BackendFailureMessage(t *testing.T) {
	retriever := &fakeRetriever{records: []domain.ContextRecord{
		webRecord("Page", "content"),
	}}
	generator := &fakeGenerator{err: errors.New("dial tcp: connection refused")}
	svc := NewAnswerService(retriever, generator, "proxmox", 5)

	result := svc.Answer(context.Background(), "question", domain.ScopeAll)

	assert.Contains(t, result.Answer, "Error: Could not connect to Ollama at http://localhost:11434")
	// sources still attached so the caller can show what was found
	assert.Contains(t, result.Answer, "PROXMOX Sources:")
	require.Len(t, result.Sources, 1)
}

func TestAnswerService_ScopePassedThrough(t *testing.T) {
	retriever := &fakeRetriever{}
	svc := NewAnswerService(retriever, &fakeGenerator{}, "proxmox", 7)

	svc.Answer(context.Background(), "question", domain.ScopePDF)

	assert.Equal(t, domain.ScopePDF, retriever.lastScope)
	assert.Equal(t, 7, retriever.lastK)
}

func TestSourceDisplay(t *testing.T) {
	assert.Equal(t, "📖 book.pdf", SourceDisplay(domain.ChunkMetadata{
		Kind: domain.SourceKindPDF, Filename: "book.pdf", Title: "Ignored",
	}))
	assert.Equal(t, "🌐 Page Title", SourceDisplay(domain.ChunkMetadata{
		Kind: domain.SourceKindWeb, Title: "Page Title",
	}))
}
