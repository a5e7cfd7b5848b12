package domain

import "fmt"

// Chunk is a bounded text segment prepared for embedding and indexing.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Text       string
	Metadata   ChunkMetadata
}

// ChunkMetadata is the searchable payload stored alongside each chunk.
type ChunkMetadata struct {
	Technology string
	Title      string
	OriginURL  string
	SourceName string
	Guide      string
	Filename   string
	Kind       SourceKind
	ChunkIndex int
	PageCount  int
	Author     string
}

// ChunkID derives the deterministic chunk identifier from the source kind,
// the document identifier, and the chunk position. Re-chunking the same
// document with the same parameters reproduces identical IDs, which is what
// makes full-rebuild re-indexing idempotent.
func ChunkID(kind SourceKind, documentID string, index int) string {
	return fmt.Sprintf("%s_%s_%d", kind, documentID, index)
}

// NewChunk builds the chunk at the given position of a source document.
func NewChunk(doc *SourceDocument, index int, text string) Chunk {
	return Chunk{
		ID:         ChunkID(doc.Kind, doc.SourceID, index),
		DocumentID: doc.SourceID,
		Index:      index,
		Text:       text,
		Metadata: ChunkMetadata{
			Technology: doc.Technology,
			Title:      doc.Title,
			OriginURL:  doc.OriginURL,
			SourceName: doc.SourceName,
			Guide:      doc.Guide,
			Filename:   doc.Filename,
			Kind:       doc.Kind,
			ChunkIndex: index,
			PageCount:  doc.PageCount,
			Author:     doc.Author,
		},
	}
}

// ContextRecord is a single retrieval result: a chunk's content plus its
// metadata and similarity distance. Produced per query, never persisted.
type ContextRecord struct {
	Content  string
	Metadata ChunkMetadata
	Distance *float64
}
