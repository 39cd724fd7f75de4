// Package objstore is the object storage capability the archive uploads into.
package objstore

//go:generate mockgen -source=objstore.go -destination=mocks/mock_objstore.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
)

// ErrInvalidPath is returned for storage paths without a bucket.
var ErrInvalidPath = errors.New("invalid storage path")

// Client is an S3-compatible object store.
type Client interface {
	// Put uploads the file at localPath to bucket/key. An empty contentType
	// leaves detection to the store.
	Put(ctx context.Context, bucket, key, localPath, contentType string) error
	// BucketExists reports whether bucket exists and is reachable.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// CreateBucket creates bucket.
	CreateBucket(ctx context.Context, bucket string) error
}

// EnsureBucket makes a best effort to have bucket exist. Failures are
// logged, not returned: the bucket may exist but be hidden from HEAD by
// the credentials in use, and a real problem surfaces on the first upload.
func EnsureBucket(ctx context.Context, c Client, bucket string, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	ok, err := c.BucketExists(ctx, bucket)
	if err == nil && ok {
		return
	}
	if err != nil {
		log.Debug("bucket lookup failed", "bucket", bucket, "error", err)
	}

	if err := c.CreateBucket(ctx, bucket); err != nil {
		log.Warn("bucket not created", "bucket", bucket, "error", err)
		return
	}
	log.Info("created bucket", "bucket", bucket)
}
