// Package exportblob uploads wall-store snapshots and compliance report
// PDFs to S3-compatible object storage, grounded on s3.go's S3Backend:
// aws.Config via config.LoadDefaultConfig with an optional
// static-credentials override, a custom endpoint + path-style addressing
// for S3-compatible services (MinIO et al.), and one method per operation
// on a thin client wrapper.
package exportblob

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
)

const component = "exportblob"

// Config describes how to reach the object storage backend.
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // non-empty for S3-compatible services (MinIO, etc.)
}

// Store uploads and fetches wall-store snapshots and reports from S3.
type Store struct {
	client *s3.Client
	bucket string
}

// New constructs a Store from cfg, loading AWS credentials the way the
// teacher's S3Backend does: explicit static credentials when provided,
// otherwise the default provider chain (IAM role, environment, etc.).
func New(ctx context.Context, cfg Config) (*Store, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		)
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to load AWS config")
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, opts...)
	logger.Info("exportblob: initialized S3 store for bucket %s", cfg.Bucket)
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// snapshotKey namespaces wall-store snapshot uploads under a date-prefixed
// path so a bucket listing sorts newest-last.
func snapshotKey(wallID string, at time.Time) string {
	return "snapshots/" + at.UTC().Format("2006/01/02") + "/" + wallID + ".json"
}

// reportKey namespaces compliance-report uploads alongside snapshots.
func reportKey(wallID string, at time.Time) string {
	return "reports/" + at.UTC().Format("2006/01/02") + "/" + wallID + ".pdf"
}

// PutSnapshot uploads a wall-store JSON snapshot.
func (s *Store) PutSnapshot(ctx context.Context, wallID string, at time.Time, data []byte) (string, error) {
	key := snapshotKey(wallID, at)
	if err := s.put(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// PutReport uploads a compliance-report PDF.
func (s *Store) PutReport(ctx context.Context, wallID string, at time.Time, data []byte) (string, error) {
	key := reportKey(wallID, at)
	if err := s.put(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to upload object %s", key)
	}
	logger.Debug("exportblob: uploaded %s to bucket %s", key, s.bucket)
	return nil
}

// Get retrieves an object by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to get object %s", key)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to read object body for %s", key)
	}
	return data, nil
}

// Delete removes an object by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to delete object %s", key)
	}
	return nil
}
