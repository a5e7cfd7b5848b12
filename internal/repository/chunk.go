package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/docsage/docsage/internal/domain"
)

// ChunkRepository persists embedded chunks and runs cosine-similarity
// queries against named collections. One collection holds one technology
// corpus.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// InsertBatch stores one batch of chunks and their embeddings inside a
// single transaction, so a mid-batch failure never leaves a partial batch
// behind. Batches committed earlier are unaffected.
func (r *ChunkRepository) InsertBatch(ctx context.Context, collection string, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for i, c := range chunks {
		_, err := tx.Exec(ctx,
			`INSERT INTO chunks
				(collection, chunk_id, document_id, technology, source_kind, title, origin_url, source_name, guide, filename, chunk_index, page_count, author, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			collection,
			c.ID,
			c.DocumentID,
			c.Metadata.Technology,
			string(c.Metadata.Kind),
			c.Metadata.Title,
			c.Metadata.OriginURL,
			c.Metadata.SourceName,
			c.Metadata.Guide,
			c.Metadata.Filename,
			c.Index,
			c.Metadata.PageCount,
			c.Metadata.Author,
			c.Text,
			pgvector.NewVector(embeddings[i]),
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteCollection drops every chunk of the named collection. Together with
// deterministic chunk IDs this is what makes a full rebuild idempotent:
// no chunk from a previous run can survive.
func (r *ChunkRepository) DeleteCollection(ctx context.Context, collection string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chunks WHERE collection = $1`, collection)
	return err
}

// Count returns the number of stored chunks in the collection.
func (r *ChunkRepository) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE collection = $1`, collection,
	).Scan(&count)
	return count, err
}

// ChunkIDs returns every chunk ID in the collection, ordered for stable
// comparison across rebuilds.
func (r *ChunkRepository) ChunkIDs(ctx context.Context, collection string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT chunk_id FROM chunks WHERE collection = $1 ORDER BY chunk_id`, collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Search returns up to k chunks nearest to the embedding by cosine distance,
// most similar first. A non-empty kind restricts results to that source
// kind. An empty collection yields an empty result set, not an error.
func (r *ChunkRepository) Search(ctx context.Context, collection string, embedding []float32, k int, kind domain.SourceKind) ([]domain.ContextRecord, error) {
	if k <= 0 {
		k = 5
	}

	vec := pgvector.NewVector(embedding)

	query := `
		SELECT content, technology, title, origin_url, source_name, guide, filename, source_kind, chunk_index, page_count, author,
		       embedding <=> $1 AS distance
		FROM chunks
		WHERE collection = $2`
	args := []interface{}{vec, collection}

	if kind != "" {
		query += ` AND source_kind = $3
		ORDER BY embedding <=> $1
		LIMIT $4`
		args = append(args, string(kind), k)
	} else {
		query += `
		ORDER BY embedding <=> $1
		LIMIT $3`
		args = append(args, k)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.ContextRecord, 0, k)
	for rows.Next() {
		var rec domain.ContextRecord
		var kindStr string
		var distance float64
		if err := rows.Scan(
			&rec.Content,
			&rec.Metadata.Technology,
			&rec.Metadata.Title,
			&rec.Metadata.OriginURL,
			&rec.Metadata.SourceName,
			&rec.Metadata.Guide,
			&rec.Metadata.Filename,
			&kindStr,
			&rec.Metadata.ChunkIndex,
			&rec.Metadata.PageCount,
			&rec.Metadata.Author,
			&distance,
		); err != nil {
			return nil, err
		}
		rec.Metadata.Kind = domain.SourceKind(kindStr)
		rec.Distance = &distance
		records = append(records, rec)
	}

	return records, rows.Err()
}
