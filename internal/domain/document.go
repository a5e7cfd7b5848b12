package domain

import "strings"

// SourceKind identifies where a document came from.
type SourceKind string

const (
	// SourceKindWeb marks documents scraped from online documentation pages.
	SourceKindWeb SourceKind = "web"
	// SourceKindPDF marks documents extracted from PDF or EPUB books.
	SourceKindPDF SourceKind = "pdf"
)

// IsValid reports whether the kind is one of the known source kinds.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindWeb, SourceKindPDF:
		return true
	}
	return false
}

// SourceDocument is one logical unit of documentation before chunking.
// It is immutable once produced by the corpus reader.
type SourceDocument struct {
	Technology string
	SourceID   string // filename stem, the basis for deterministic chunk IDs
	Title      string
	OriginURL  string // empty for books
	RawText    string
	Kind       SourceKind
	Filename   string

	// Web-only fields.
	SourceName string
	Guide      string

	// Book-only fields.
	PageCount int
	Author    string
}

// Scope restricts retrieval to one source kind, or to the whole collection.
type Scope string

const (
	ScopeAll Scope = "all"
	ScopeWeb Scope = "web"
	ScopePDF Scope = "pdf"
)

// ParseScope maps a caller-supplied scope string to a Scope.
// Unknown values fall back to ScopeAll, matching the query interface's
// lenient contract.
func ParseScope(s string) Scope {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ScopePDF):
		return ScopePDF
	case string(ScopeWeb):
		return ScopeWeb
	default:
		return ScopeAll
	}
}

// KindFilter translates the scope into a source-kind equality filter.
// The second return value is false when no filter should be applied.
func (s Scope) KindFilter() (SourceKind, bool) {
	switch s {
	case ScopeWeb:
		return SourceKindWeb, true
	case ScopePDF:
		return SourceKindPDF, true
	}
	return "", false
}
