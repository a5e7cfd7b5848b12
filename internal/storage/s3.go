// Package storage syncs book bundles from S3-compatible object storage into
// the local books directory before indexing.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BookStoreConfig holds configuration for BookStore
type BookStoreConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// BookStore reads book files from S3-compatible storage (MinIO, RustFS, AWS)
type BookStore struct {
	client *s3.Client
	bucket string
}

// NewBookStore creates a new BookStore with the given configuration
func NewBookStore(ctx context.Context, cfg BookStoreConfig) (*BookStore, error) {
	// Custom resolver for S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Path-style addressing for S3-compatible services
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &BookStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// ListBooks returns the keys of all book objects in the bucket.
func (c *BookStore) ListBooks(ctx context.Context) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", c.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if isBookKey(key) {
				keys = append(keys, key)
			}
		}
	}

	return keys, nil
}

// SyncTo downloads every book object into dir, flattening key prefixes to
// base names. Existing files are overwritten so the local copy tracks the
// bucket. Returns the number of books downloaded.
func (c *BookStore) SyncTo(ctx context.Context, dir string) (int, error) {
	keys, err := c.ListBooks(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create books dir: %w", err)
	}

	downloaded := 0
	for _, key := range keys {
		if err := c.downloadObject(ctx, key, filepath.Join(dir, path.Base(key))); err != nil {
			log.Printf("storage: skipping %s: %v", key, err)
			continue
		}
		downloaded++
	}

	log.Printf("storage: synced %d of %d books from bucket %s", downloaded, len(keys), c.bucket)
	return downloaded, nil
}

func (c *BookStore) downloadObject(ctx context.Context, key, dest string) error {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

func isBookKey(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf", ".epub":
		return true
	}
	return false
}
