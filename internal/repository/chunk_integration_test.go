package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/testutil"
)

const testCollection = "proxmox_docs"

func setupRepo(t *testing.T) (*ChunkRepository, func()) {
	if os.Getenv("SKIP_INTEGRATION") != "" {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")

	cleanup := func() {
		pool.Close()
		_ = pc.Terminate(ctx)
	}
	return NewChunkRepository(pool), cleanup
}

func testChunk(kind domain.SourceKind, docID string, index int, text string) domain.Chunk {
	doc := &domain.SourceDocument{
		Technology: "proxmox",
		SourceID:   docID,
		Title:      "Title " + docID,
		Kind:       kind,
		Filename:   docID + ".json",
	}
	return domain.NewChunk(doc, index, text)
}

func testEmbedding(seed float32) []float32 {
	v := make([]float32, 1536)
	v[0] = seed
	v[1] = 1
	return v
}

func TestChunkRepository_InsertSearchDelete(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	chunks := []domain.Chunk{
		testChunk(domain.SourceKindWeb, "install", 0, "Install packages first."),
		testChunk(domain.SourceKindPDF, "handbook", 0, "Books discuss storage."),
	}
	embeddings := [][]float32{testEmbedding(0.1), testEmbedding(0.9)}

	require.NoError(t, repo.InsertBatch(ctx, testCollection, chunks, embeddings))

	count, err := repo.Count(ctx, testCollection)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// nearest to the first embedding comes back first
	records, err := repo.Search(ctx, testCollection, testEmbedding(0.1), 5, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Install packages first.", records[0].Content)
	assert.Equal(t, domain.SourceKindWeb, records[0].Metadata.Kind)
	require.NotNil(t, records[0].Distance)
	assert.InDelta(t, 0.0, *records[0].Distance, 1e-4)

	// kind filter restricts results
	records, err = repo.Search(ctx, testCollection, testEmbedding(0.1), 5, domain.SourceKindPDF)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Books discuss storage.", records[0].Content)

	require.NoError(t, repo.DeleteCollection(ctx, testCollection))
	count, err = repo.Count(ctx, testCollection)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestChunkRepository_CollectionsAreIsolated(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, "proxmox_docs",
		[]domain.Chunk{testChunk(domain.SourceKindWeb, "a", 0, "proxmox text")},
		[][]float32{testEmbedding(0.1)}))
	require.NoError(t, repo.InsertBatch(ctx, "ceph_docs",
		[]domain.Chunk{testChunk(domain.SourceKindWeb, "a", 0, "ceph text")},
		[][]float32{testEmbedding(0.2)}))

	require.NoError(t, repo.DeleteCollection(ctx, "proxmox_docs"))

	count, err := repo.Count(ctx, "ceph_docs")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChunkRepository_InsertBatch_MismatchedLengths(t *testing.T) {
	repo := NewChunkRepository(nil)

	err := repo.InsertBatch(context.Background(), testCollection,
		[]domain.Chunk{testChunk(domain.SourceKindWeb, "a", 0, "text")},
		nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestChunkRepository_InsertBatch_Empty(t *testing.T) {
	repo := NewChunkRepository(nil)
	assert.NoError(t, repo.InsertBatch(context.Background(), testCollection, nil, nil))
}

func TestChunkRepository_ChunkIDs(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	var chunks []domain.Chunk
	var embeddings [][]float32
	for i := 0; i < 3; i++ {
		chunks = append(chunks, testChunk(domain.SourceKindWeb, "doc", i, fmt.Sprintf("chunk %d", i)))
		embeddings = append(embeddings, testEmbedding(float32(i)))
	}
	require.NoError(t, repo.InsertBatch(ctx, testCollection, chunks, embeddings))

	ids, err := repo.ChunkIDs(ctx, testCollection)
	require.NoError(t, err)
	assert.Equal(t, []string{"web_doc_0", "web_doc_1", "web_doc_2"}, ids)
}
