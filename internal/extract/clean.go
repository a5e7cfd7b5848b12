package extract

import "strings"

// headerFooterPatterns marks lines that are almost always repeated page
// furniture in technical books rather than body text.
var headerFooterPatterns = []string{
	"page", "chapter", "section", "figure", "table",
	"copyright", "all rights reserved", "confidential",
}

// CleanText normalizes extracted book text: lines are trimmed, blank lines
// removed, and header/footer furniture dropped.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isHeaderFooterLine(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

func isHeaderFooterLine(line string) bool {
	lower := strings.ToLower(line)
	for _, pattern := range headerFooterPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
