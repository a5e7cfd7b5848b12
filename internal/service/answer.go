package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/telemetry"
)

// Generator invokes the text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	BaseURL() string
}

// Retriever supplies ranked context records for a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, scope domain.Scope) []domain.ContextRecord
}

// AnswerService assembles a grounded prompt from retrieved context, invokes
// the generation backend, and appends a deduplicated source list. It never
// returns an error: backend failures become a renderable error message so
// the caller can always show something to the end user.
type AnswerService struct {
	retriever   Retriever
	generator   Generator
	technology  string
	contextSize int
}

// AnswerResult is a complete, renderable answer.
type AnswerResult struct {
	Answer        string
	Sources       []string
	ContextChunks int
}

func NewAnswerService(retriever Retriever, generator Generator, technology string, contextSize int) *AnswerService {
	if contextSize <= 0 {
		contextSize = 5
	}
	return &AnswerService{
		retriever:   retriever,
		generator:   generator,
		technology:  technology,
		contextSize: contextSize,
	}
}

// Answer responds to a question within the given retrieval scope. An empty
// or mismatched corpus produces the fixed no-documentation message, the
// designed fallback rather than a fault.
func (s *AnswerService) Answer(ctx context.Context, question string, scope domain.Scope) *AnswerResult {
	ctx, span := telemetry.StartSpan(ctx, "answer.query", telemetry.SpanAttributes{
		Technology: s.technology,
		Scope:      string(scope),
		Operation:  "answer",
	})
	defer span.End()

	records := s.retriever.Retrieve(ctx, question, s.contextSize, scope)
	if len(records) == 0 {
		return &AnswerResult{
			Answer:  fmt.Sprintf("No relevant %s documentation found for your question.", s.technology),
			Sources: []string{},
		}
	}

	contextParts := make([]string, 0, len(records)*3)
	sources := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		contextParts = append(contextParts, "Source: "+rec.Metadata.Title)
		contextParts = append(contextParts, "Content: "+rec.Content)
		contextParts = append(contextParts, "---")

		display := SourceDisplay(rec.Metadata)
		if !seen[display] {
			seen[display] = true
			sources = append(sources, display)
		}
	}

	prompt := buildPrompt(s.technology, strings.Join(contextParts, "\n"), question)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("answer: generation backend failed: %v", err)
		response = fmt.Sprintf("Error: Could not connect to Ollama at %s", s.generator.BaseURL())
	}

	tech := strings.ToUpper(s.technology)
	var sb strings.Builder
	sb.WriteString(response)
	sb.WriteString(fmt.Sprintf("\n\n%s Sources:\n", tech))
	for i, source := range sources {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- " + source)
	}

	return &AnswerResult{
		Answer:        sb.String(),
		Sources:       sources,
		ContextChunks: len(records),
	}
}

// SourceDisplay is the citation line for one retrieved chunk: book chunks
// cite the file, web chunks cite the page title. Two chunks from the same
// book or page collapse to one citation.
func SourceDisplay(m domain.ChunkMetadata) string {
	if m.Kind == domain.SourceKindPDF {
		return "📖 " + m.Filename
	}
	return "🌐 " + m.Title
}

func buildPrompt(technology, contextText, question string) string {
	tech := strings.ToUpper(technology)
	return fmt.Sprintf(`You are a %s expert. Answer the user's question using ONLY the provided documentation context.

DOCUMENTATION CONTEXT:
%s

USER QUESTION: %s

INSTRUCTIONS:
- Answer based ONLY on the provided %s documentation
- Include specific commands, procedures, or examples when available
- Be concise but thorough
- Include relevant warnings or prerequisites

ANSWER:`, tech, contextText, question, tech)
}
