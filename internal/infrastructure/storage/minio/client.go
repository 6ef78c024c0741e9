// Package minio serves the supplier roster from an S3-compatible bucket.
package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

const (
	DefaultBucket = "riskradar"
	DefaultRegion = "us-east-1"
)

var ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")

// ObjectAPI is the subset of the object store the roster needs.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// sdkAPI adapts *minio.Client to ObjectAPI.  GetObject is lazy in the SDK, so
// the object is stat'ed up front to surface NoSuchKey here.
type sdkAPI struct {
	c *minio.Client
}

func (a sdkAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return a.c.BucketExists(ctx, bucket)
}

func (a sdkAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return a.c.MakeBucket(ctx, bucket, opts)
}

func (a sdkAPI) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.c.PutObject(ctx, bucket, key, reader, size, opts)
}

func (a sdkAPI) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := a.c.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// Client wraps the object store for one bucket.
type Client struct {
	api    ObjectAPI
	bucket string
	region string
	logger logging.Logger
}

// NewClient connects to cfg.Endpoint and verifies the bucket is reachable.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.InvalidParam("minio endpoint cannot be empty")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	sdk, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := NewClientWithAPI(sdkAPI{c: sdk}, cfg.Bucket, log)
	c.region = cfg.Region

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.HealthCheck(ctx); err != nil {
		return nil, err
	}
	c.logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", c.bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return c, nil
}

// NewClientWithAPI builds a Client over an existing ObjectAPI (for testing).
func NewClientWithAPI(api ObjectAPI, bucket string, log logging.Logger) *Client {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{api: api, bucket: bucket, region: DefaultRegion, logger: log}
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string { return c.bucket }

// HealthCheck reports whether the bucket can be reached.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to reach minio")
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create bucket").WithDetail(c.bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.bucket))
	return nil
}

// Get downloads key from the bucket.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := c.api.GetObject(ctx, c.bucket, key)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound.WithDetail(key)
		}
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "download failed").WithDetail(key)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "download failed").WithDetail(key)
	}
	return data, nil
}

// Put uploads data under key.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "upload failed").WithDetail(key)
	}
	return nil
}

//Personal.AI order the ending
