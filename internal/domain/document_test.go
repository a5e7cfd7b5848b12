package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceKind_IsValid(t *testing.T) {
	assert.True(t, SourceKindWeb.IsValid())
	assert.True(t, SourceKindPDF.IsValid())
	assert.False(t, SourceKind("epub").IsValid())
	assert.False(t, SourceKind("").IsValid())
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input    string
		expected Scope
	}{
		{"all", ScopeAll},
		{"web", ScopeWeb},
		{"pdf", ScopePDF},
		{"PDF", ScopePDF},
		{" web ", ScopeWeb},
		{"", ScopeAll},
		{"books", ScopeAll},
		{"nonsense", ScopeAll},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseScope(tt.input))
		})
	}
}

func TestScope_KindFilter(t *testing.T) {
	kind, ok := ScopeWeb.KindFilter()
	assert.True(t, ok)
	assert.Equal(t, SourceKindWeb, kind)

	kind, ok = ScopePDF.KindFilter()
	assert.True(t, ok)
	assert.Equal(t, SourceKindPDF, kind)

	kind, ok = ScopeAll.KindFilter()
	assert.False(t, ok)
	assert.Equal(t, SourceKind(""), kind)
}
