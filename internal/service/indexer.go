package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/telemetry"
)

// Embedder generates a fixed-length vector for a piece of text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkStore is the persistence interface the indexer drives.
type ChunkStore interface {
	InsertBatch(ctx context.Context, collection string, chunks []domain.Chunk, embeddings [][]float32) error
	DeleteCollection(ctx context.Context, collection string) error
	Count(ctx context.Context, collection string) (int64, error)
	Search(ctx context.Context, collection string, embedding []float32, k int, kind domain.SourceKind) ([]domain.ContextRecord, error)
}

// CorpusSource enumerates the documents of one technology corpus.
type CorpusSource interface {
	WalkWeb(ctx context.Context, fn func(*domain.SourceDocument) error) error
	WalkBooks(ctx context.Context, fn func(*domain.SourceDocument) error) error
}

// IndexConfig bundles the tunables of one index handle.
type IndexConfig struct {
	Collection    string
	WebProfile    ChunkProfile
	BookProfile   ChunkProfile
	WebBatchSize  int
	BookBatchSize int
}

// DefaultIndexConfig returns the batch sizes and chunk profiles used in
// production: web pages batch at 100 chunks, books at 50 to keep the
// larger book chunks within the same payload envelope.
func DefaultIndexConfig(collection string) IndexConfig {
	return IndexConfig{
		Collection:    collection,
		WebProfile:    WebChunkProfile(),
		BookProfile:   BookChunkProfile(),
		WebBatchSize:  100,
		BookBatchSize: 50,
	}
}

// IndexService is the handle for one technology's vector index. It owns the
// embedding function and the collection reference; independent corpora get
// independent instances. The RWMutex makes a full rebuild exclusive against
// concurrent queries, so a query can never observe a partially dropped
// collection.
type IndexService struct {
	store    ChunkStore
	embedder Embedder
	cfg      IndexConfig

	mu sync.RWMutex
}

// IndexStats reports how many chunks a rebuild committed per source kind.
type IndexStats struct {
	WebChunks  int
	BookChunks int
}

func (s IndexStats) Total() int {
	return s.WebChunks + s.BookChunks
}

func NewIndexService(store ChunkStore, embedder Embedder, cfg IndexConfig) *IndexService {
	if cfg.WebBatchSize <= 0 {
		cfg.WebBatchSize = 100
	}
	if cfg.BookBatchSize <= 0 {
		cfg.BookBatchSize = 50
	}
	if cfg.WebProfile.Size <= 0 {
		cfg.WebProfile = WebChunkProfile()
	}
	if cfg.BookProfile.Size <= 0 {
		cfg.BookProfile = BookChunkProfile()
	}
	return &IndexService{store: store, embedder: embedder, cfg: cfg}
}

// Collection returns the name of the collection this handle owns.
func (s *IndexService) Collection() string {
	return s.cfg.Collection
}

// RebuildAll drops the collection and re-indexes the whole corpus. The
// clear step must succeed: renamed or removed source files would otherwise
// leave orphaned chunks, since chunk IDs are not diffable across corpus
// edits. A failed clear surfaces domain.ErrIndexUnavailable; a failed
// insert batch is logged and dropped, reducing the reported totals.
func (s *IndexService) RebuildAll(ctx context.Context, source CorpusSource) (*IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "index.rebuild", telemetry.SpanAttributes{
		Collection: s.cfg.Collection,
		Operation:  "rebuild",
	})
	defer span.End()

	if err := s.store.DeleteCollection(ctx, s.cfg.Collection); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	stats := &IndexStats{}
	stats.WebChunks = s.indexDocuments(ctx, source.WalkWeb, s.cfg.WebProfile, s.cfg.WebBatchSize)
	stats.BookChunks = s.indexDocuments(ctx, source.WalkBooks, s.cfg.BookProfile, s.cfg.BookBatchSize)

	log.Printf("index: rebuilt collection %s with %d chunks (%d web + %d book)",
		s.cfg.Collection, stats.Total(), stats.WebChunks, stats.BookChunks)
	return stats, nil
}

type walkFunc func(ctx context.Context, fn func(*domain.SourceDocument) error) error

// indexDocuments chunks every document the walker yields and commits the
// chunks in fixed-size batches. Chunks below the profile's minimum viable
// length are discarded here, at ingestion; their positions still count
// toward chunk IDs so IDs stay stable across rebuilds.
func (s *IndexService) indexDocuments(ctx context.Context, walk walkFunc, profile ChunkProfile, batchSize int) int {
	batch := make([]domain.Chunk, 0, batchSize)
	total := 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.embedAndStore(ctx, batch); err != nil {
			log.Printf("index: dropped batch of %d chunks: %v", len(batch), err)
		} else {
			total += len(batch)
		}
		batch = batch[:0]
	}

	err := walk(ctx, func(doc *domain.SourceDocument) error {
		for i, text := range ChunkText(doc.RawText, profile) {
			if len(strings.TrimSpace(text)) < profile.MinChars {
				continue
			}
			batch = append(batch, domain.NewChunk(doc, i, text))
			if len(batch) >= batchSize {
				flush()
			}
		}
		return ctx.Err()
	})
	if err != nil {
		log.Printf("index: corpus walk aborted: %v", err)
	}
	flush()

	return total
}

func (s *IndexService) embedAndStore(ctx context.Context, batch []domain.Chunk) error {
	embeddings := make([][]float32, 0, len(batch))
	for _, c := range batch {
		embedding, err := s.embedder.GenerateEmbedding(ctx, c.Text)
		if err != nil {
			return fmt.Errorf("embedding chunk %s: %w", c.ID, err)
		}
		embeddings = append(embeddings, embedding)
	}
	return s.store.InsertBatch(ctx, s.cfg.Collection, batch, embeddings)
}

// Query embeds the text and returns up to k nearest chunks, optionally
// restricted to one source kind (empty kind means no filter). An empty
// collection yields an empty result set.
func (s *IndexService) Query(ctx context.Context, text string, k int, kind domain.SourceKind) ([]domain.ContextRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.store.Search(ctx, s.cfg.Collection, embedding, k, kind)
}

// Count reports the number of indexed chunks, the service's liveness signal.
func (s *IndexService) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Count(ctx, s.cfg.Collection)
}
