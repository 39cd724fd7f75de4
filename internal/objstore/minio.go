package objstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the connection settings for an S3-compatible endpoint.
type MinioConfig struct {
	Endpoint  string // host[:port], optionally with an http(s) scheme
	AccessKey string
	SecretKey string
	Region    string
}

// MinioClient implements Client on top of minio-go.
type MinioClient struct {
	client *minio.Client
	region string
}

// NewMinioClient creates a client for the configured endpoint. Endpoints
// without a scheme are assumed to be https.
func NewMinioClient(cfg MinioConfig) (*MinioClient, error) {
	host, secure, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &MinioClient{client: client, region: cfg.Region}, nil
}

func parseEndpoint(endpoint string) (host string, secure bool, err error) {
	if endpoint == "" {
		return "", false, fmt.Errorf("s3 endpoint is empty")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse s3 endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("parse s3 endpoint: no host in %q", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}

// Put implements Client.
func (c *MinioClient) Put(ctx context.Context, bucket, key, localPath, contentType string) error {
	_, err := c.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// BucketExists implements Client.
func (c *MinioClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ok, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("head bucket %s: %w", bucket, err)
	}
	return ok, nil
}

// CreateBucket implements Client.
func (c *MinioClient) CreateBucket(ctx context.Context, bucket string) error {
	if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}
