// Package corpus enumerates the source records of a technology's
// documentation corpus: scraped web pages stored as one JSON file per page,
// and PDF/EPUB books handed to a pluggable extractor.
package corpus

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsage/docsage/internal/domain"
)

// indexManifestName is the scraper's manifest file; it is never ingested.
const indexManifestName = "doc_index.json"

// BookData is the raw text and metadata an extractor returns for one book.
type BookData struct {
	Text      string
	Title     string
	PageCount int
	Author    string
}

// BookExtractor turns a PDF or EPUB file into raw text plus metadata.
type BookExtractor interface {
	Extract(ctx context.Context, path string) (*BookData, error)
}

// Reader produces SourceDocuments for one technology corpus.
// Enumeration follows directory order; chunk IDs are derived from filename
// stems, so ordering does not need to be stable across runs.
type Reader struct {
	technology string
	docsDir    string
	booksDir   string
	extractor  BookExtractor
}

func NewReader(technology, docsDir, booksDir string, extractor BookExtractor) *Reader {
	return &Reader{
		technology: technology,
		docsDir:    docsDir,
		booksDir:   booksDir,
		extractor:  extractor,
	}
}

// webRecord mirrors the scraper's per-page JSON layout.
type webRecord struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Source  string `json:"source"`
	Guide   string `json:"guide"`
}

// WalkWeb invokes fn for every scraped page document in the docs directory.
// Malformed records are logged and skipped; a missing or empty content field
// still yields a document (which chunks to nothing downstream). A missing
// docs directory is not an error. An error returned by fn aborts the walk.
func (r *Reader) WalkWeb(ctx context.Context, fn func(*domain.SourceDocument) error) error {
	entries, err := os.ReadDir(r.docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("corpus: no web documents found in %s", r.docsDir)
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() || name == indexManifestName || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}

		path := filepath.Join(r.docsDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("corpus: error reading %s: %v", path, err)
			continue
		}

		var rec webRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Printf("corpus: error parsing %s: %v", path, err)
			continue
		}

		doc := &domain.SourceDocument{
			Technology: r.technology,
			SourceID:   stem(name),
			Title:      rec.Title,
			OriginURL:  rec.URL,
			RawText:    rec.Content,
			Kind:       domain.SourceKindWeb,
			Filename:   name,
			SourceName: rec.Source,
			Guide:      rec.Guide,
		}
		if doc.Title == "" {
			doc.Title = "Unknown"
		}
		if doc.SourceName == "" {
			doc.SourceName = "unknown"
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// WalkBooks invokes fn for every extractable book in the books directory.
// Extractor failures and books with no text are logged and skipped; one bad
// book never aborts the run.
func (r *Reader) WalkBooks(ctx context.Context, fn func(*domain.SourceDocument) error) error {
	entries, err := os.ReadDir(r.booksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() || !isBookFile(name) {
			continue
		}

		path := filepath.Join(r.booksDir, name)
		book, err := r.extractor.Extract(ctx, path)
		if err != nil {
			log.Printf("corpus: error processing book %s: %v", path, err)
			continue
		}
		if book == nil || strings.TrimSpace(book.Text) == "" {
			log.Printf("corpus: book %s produced no text, skipping", path)
			continue
		}

		doc := &domain.SourceDocument{
			Technology: r.technology,
			SourceID:   stem(name),
			Title:      book.Title,
			RawText:    book.Text,
			Kind:       domain.SourceKindPDF,
			Filename:   name,
			PageCount:  book.PageCount,
			Author:     book.Author,
		}
		if doc.Title == "" {
			doc.Title = stem(name)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// BookCount reports how many books sit in the books directory; used as a
// liveness signal by the health endpoint.
func (r *Reader) BookCount() (int, error) {
	entries, err := os.ReadDir(r.booksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && isBookFile(entry.Name()) {
			count++
		}
	}
	return count, nil
}

func isBookFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".epub":
		return true
	}
	return false
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
