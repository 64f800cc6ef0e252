// Package storage stages job input data in object storage. The API hands out
// presigned URLs so payloads never pass through the service itself.
package storage

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/linskybing/gpuaas-go/internal/config"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DataURLExpiry bounds how long a handed-out staging URL stays valid.
const DataURLExpiry = 15 * time.Minute

type Client struct {
	mc     *minioSDK.Client
	bucket string
}

// New connects to MinIO and ensures the data bucket exists.
func New(cfg *config.Config) (*Client, error) {
	mc, err := minioSDK.New(cfg.MinioEndpoint, &minioSDK.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	ctx := context.Background()
	exists, err := mc.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.MinioBucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		log.Printf("Bucket created: %s", cfg.MinioBucket)
	}

	return &Client{mc: mc, bucket: cfg.MinioBucket}, nil
}

// JobDataObject is the canonical object key for a job's input data.
func JobDataObject(jobID uint) string {
	return fmt.Sprintf("jobs/%d/data", jobID)
}

// PresignedPut returns an upload URL for the job's data object.
func (c *Client) PresignedPut(ctx context.Context, object string) (*url.URL, error) {
	return c.mc.PresignedPutObject(ctx, c.bucket, object, DataURLExpiry)
}

// PresignedGet returns a download URL for the job's data object.
func (c *Client) PresignedGet(ctx context.Context, object string) (*url.URL, error) {
	return c.mc.PresignedGetObject(ctx, c.bucket, object, DataURLExpiry, url.Values{})
}
