package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultPresignExpiry is how long export download links stay valid.
const DefaultPresignExpiry = time.Hour

// S3Config configures an S3-compatible bucket. For Cloudflare R2 leave
// Endpoint empty and set AccountID.
type S3Config struct {
	AccountID       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	PresignExpiry   time.Duration
}

// endpoint returns the host to dial.
func (c S3Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return c.AccountID + ".r2.cloudflarestorage.com"
}

// S3Store keeps objects in an S3-compatible bucket.
type S3Store struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
}

// NewS3Store connects to the bucket. The bucket must already exist.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("s3 credentials are not configured")
	}
	if cfg.Endpoint == "" && cfg.AccountID == "" {
		return nil, fmt.Errorf("s3 endpoint or account id is required")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	client, err := minio.New(cfg.endpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize s3 client: %w", err)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
	}, nil
}

// Put uploads obj. Uploads return the key, exports a presigned GET URL.
func (s *S3Store) Put(ctx context.Context, obj Object) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, obj.Key, bytes.NewReader(obj.Body), int64(len(obj.Body)), minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		UserMetadata: obj.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if obj.Kind != KindExport {
		return obj.Key, nil
	}
	return s.URL(ctx, obj.Key)
}

// URL presigns a GET for key.
func (s *S3Store) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}

// Ping checks that the bucket is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !ok {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
