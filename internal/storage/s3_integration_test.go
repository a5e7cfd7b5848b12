package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/testutil"
)

const testBucket = "docsage-books"

func setupBucket(t *testing.T) (*BookStore, *s3.Client, func()) {
	if os.Getenv("SKIP_INTEGRATION") != "" {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)

	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: rc.Endpoint(), HostnameImmutable: true}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(rc.AccessKey, rc.SecretKey, ""),
		),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	require.NoError(t, err)
	raw := s3.NewFromConfig(awsCfg, func(o *s3.Options) { o.UsePathStyle = true })

	_, err = raw.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err)

	store, err := NewBookStore(ctx, BookStoreConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     rc.AccessKey,
		SecretAccessKey: rc.SecretKey,
		Bucket:          testBucket,
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	cleanup := func() { _ = rc.Terminate(ctx) }
	return store, raw, cleanup
}

func putObject(t *testing.T, client *s3.Client, key, body string) {
	t.Helper()
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(testBucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(body),
	})
	require.NoError(t, err)
}

func TestBookStore_ListAndSync(t *testing.T) {
	store, raw, cleanup := setupBucket(t)
	defer cleanup()
	ctx := context.Background()

	putObject(t, raw, "handbook.pdf", "%PDF-fake")
	putObject(t, raw, "guides/internals.epub", "PK-fake")
	putObject(t, raw, "notes.txt", "not a book")

	keys, err := store.ListBooks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"handbook.pdf", "guides/internals.epub"}, keys)

	dir := t.TempDir()
	synced, err := store.SyncTo(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	// key prefixes flatten to base names
	data, err := os.ReadFile(filepath.Join(dir, "handbook.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(data))

	_, err = os.Stat(filepath.Join(dir, "internals.epub"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestBookStore_SyncTo_CreatesDir(t *testing.T) {
	store, raw, cleanup := setupBucket(t)
	defer cleanup()
	ctx := context.Background()

	putObject(t, raw, "one.pdf", "x")

	dir := filepath.Join(t.TempDir(), "nested", "books")
	synced, err := store.SyncTo(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	_, err = os.Stat(filepath.Join(dir, "one.pdf"))
	assert.NoError(t, err)
}
