package service

import "strings"

// ChunkProfile controls how raw text is segmented before indexing.
type ChunkProfile struct {
	Size     int // maximum chunk length in runes
	Overlap  int // runes shared between consecutive chunks
	MinChars int // chunks shorter than this are discarded at ingestion
}

// WebChunkProfile favors denser chunk coverage for scraped pages.
func WebChunkProfile() ChunkProfile {
	return ChunkProfile{Size: 1200, Overlap: 200, MinChars: 100}
}

// BookChunkProfile uses wider chunks and overlap so book chunks stay
// coherent across page boundaries.
func BookChunkProfile() ChunkProfile {
	return ChunkProfile{Size: 1500, Overlap: 300, MinChars: 150}
}

func isSentenceBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// ChunkText splits text into overlapping segments of at most profile.Size
// runes. Before cutting at the raw offset it searches backward, within the
// overlap window, for the last sentence-terminal rune and cuts immediately
// after it. When the window holds no boundary the cut is a hard one at the
// raw offset; long unstructured sections such as tables may split mid-word.
// Consecutive chunks share profile.Overlap runes, less whatever the
// boundary snap removed. Whitespace-only segments are dropped.
//
// MinChars is not applied here; the indexer filters short chunks at
// ingestion so chunk positions stay stable.
func ChunkText(text string, profile ChunkProfile) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if profile.Size <= 0 {
		profile = WebChunkProfile()
	}

	runes := []rune(clean)
	if len(runes) <= profile.Size {
		return []string{clean}
	}

	chunks := make([]string, 0, len(runes)/profile.Size+1)
	start := 0
	for start < len(runes) {
		end := start + profile.Size
		if end >= len(runes) {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		low := start + profile.Size - profile.Overlap
		if low < start {
			low = start
		}
		for i := end; i > low; i-- {
			if isSentenceBoundary(runes[i-1]) {
				end = i
				break
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - profile.Overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}
