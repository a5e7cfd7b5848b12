package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docsage/docsage/internal/corpus"
)

// extractPDF reads plain text and document-info metadata from a PDF.
// The underlying parser panics on some malformed files, so the panic is
// converted into an ordinary extraction error.
func extractPDF(path string) (data *corpus.BookData, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("malformed pdf %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, textReader); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	data = &corpus.BookData{
		Text:      CleanText(sb.String()),
		PageCount: reader.NumPage(),
	}

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		data.Title = info.Key("Title").Text()
		data.Author = info.Key("Author").Text()
	}
	return data, nil
}
