package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"leaguehelper/internal/catalog"
	"leaguehelper/internal/config"
	"leaguehelper/internal/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Store keeps catalogs as objects named catalogs/<version>.json.zst
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	logger     *zap.Logger

	initOnce sync.Once
	initErr  error
}

// NewS3Store creates an S3 (or minio) backed store
func NewS3Store(cfg config.S3Config, logger *zap.Logger) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client:     client,
		bucketName: bucket,
		region:     region,
		logger:     logging.OrNop(logger).Named("store"),
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Load reads the catalog for a version
func (s *S3Store) Load(ctx context.Context, version string) (*catalog.Catalog, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, objectKey(version), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Decode(data)
}

// Save uploads a catalog
func (s *S3Store) Save(ctx context.Context, c *catalog.Catalog) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	data, err := Encode(c)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucketName, objectKey(c.PatchVersion), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/zstd",
	})
	if err != nil {
		return fmt.Errorf("failed to save catalog %s: %w", c.PatchVersion, err)
	}
	s.logger.Debug("saved catalog", zap.String("version", c.PatchVersion), zap.Int("bytes", len(data)))
	return nil
}

// Close is a no-op; the minio client holds no connections to release
func (s *S3Store) Close() error {
	return nil
}

func objectKey(version string) string {
	return "catalogs/" + strings.TrimSpace(version) + ".json.zst"
}
