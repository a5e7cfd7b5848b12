// Package extract implements text and metadata extraction for PDF and EPUB
// books. It satisfies corpus.BookExtractor.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docsage/docsage/internal/corpus"
)

// Extractor extracts raw text and metadata from book files on disk.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract dispatches on the file extension. Unsupported formats are an
// error so the corpus reader can log and skip the file.
func (e *Extractor) Extract(ctx context.Context, path string) (*corpus.BookData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".epub":
		return extractEPUB(path)
	default:
		return nil, fmt.Errorf("unsupported book format %q", filepath.Ext(path))
	}
}
