package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/docsage/docsage/internal/corpus"
)

// opfPackage is the subset of the EPUB package document carrying the book's
// Dublin Core metadata.
type opfPackage struct {
	Title   string `xml:"metadata>title"`
	Creator string `xml:"metadata>creator"`
}

// extractEPUB reads an EPUB archive: XHTML chapters become text, the OPF
// package document supplies title and author. For EPUBs the page count is
// the number of content documents, the closest analogue the format offers.
func extractEPUB(path string) (*corpus.BookData, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer zr.Close()

	data := &corpus.BookData{}

	var chapters []*zip.File
	for _, f := range zr.File {
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".xhtml", ".html", ".htm":
			chapters = append(chapters, f)
		case ".opf":
			if pkg, err := readOPF(f); err == nil {
				data.Title = strings.TrimSpace(pkg.Title)
				data.Author = strings.TrimSpace(pkg.Creator)
			}
		}
	}

	// Archive path order tracks reading order closely enough for corpus
	// ingestion; chunk retrieval does not depend on exact spine order.
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Name < chapters[j].Name })

	var sb strings.Builder
	for _, f := range chapters {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		node, parseErr := html.Parse(rc)
		rc.Close()
		if parseErr != nil {
			continue
		}
		writeNodeText(node, &sb)
		sb.WriteString("\n")
	}

	data.Text = CleanText(sb.String())
	data.PageCount = len(chapters)
	return data, nil
}

func readOPF(f *zip.File) (*opfPackage, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var pkg opfPackage
	if err := xml.NewDecoder(rc).Decode(&pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func writeNodeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head":
			return
		}
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, sb)
	}
	if n.Type == html.ElementNode && isBlockElement(n.Data) {
		sb.WriteString("\n")
	}
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "section", "article":
		return true
	}
	return false
}
