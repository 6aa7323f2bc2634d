package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cityinfo/internal/env"
	"cityinfo/internal/keys"
	"cityinfo/internal/models"
)

// Record is what gets archived for each run.
type Record struct {
	State      *models.PipelineState `json:"state"`
	Document   string                `json:"document"`
	ArchivedAt time.Time             `json:"archived_at"`
}

// S3Service archives run records in S3-compatible storage.
type S3Service struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewS3Service connects to the MinIO endpoint in cfg.
func NewS3Service(cfg env.MinIOConfig, logger *slog.Logger) (*S3Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}
	if logger == nil {
		logger = slog.Default()
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: "us-east-1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.Info("Connected to MinIO endpoint", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return &S3Service{client: minioClient, bucket: cfg.Bucket, logger: logger.With("component", "storage")}, nil
}

func (s *S3Service) CreateBucket(ctx context.Context, location string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location})
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// StoreRun writes the run record under its canonical key and returns the key.
func (s *S3Service) StoreRun(ctx context.Context, state *models.PipelineState) (string, error) {
	objectKey := keys.Profile(state.Query, state.RunID)

	rec := Record{State: state, ArchivedAt: time.Now().UTC()}
	if state.Profile != nil {
		rec.Document = state.Profile.Document()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run to JSON: %w", err)
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to store object in S3: %w", err)
	}

	s.logger.Info("stored run", "key", objectKey, "bytes", len(data))
	return objectKey, nil
}

// GetRun reads an archived run record back.
func (s *S3Service) GetRun(ctx context.Context, objectKey string) (*Record, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer object.Close()

	var rec Record
	if err := json.NewDecoder(object).Decode(&rec); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, objectKey)
		}
		return nil, fmt.Errorf("failed to decode JSON from stream: %w", err)
	}
	return &rec, nil
}
