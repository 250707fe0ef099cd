package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStorage defines the interface for storing and retrieving binary data.
type BlobStorage interface {
	// Upload stores data from the reader at the specified path.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download retrieves data from the specified path.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the data at the specified path.
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the specified path.
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a URL for accessing the data at the specified path.
	// For local storage, this returns a filesystem path; for S3, a
	// presigned URL.
	GetURL(ctx context.Context, path string) (string, error)
}

// Config selects and configures a BlobStorage backend.
type Config struct {
	Type          string
	BaseDir       string
	Bucket        string
	Region        string
	PresignExpiry time.Duration
}

// NewBlobStorage creates a BlobStorage implementation based on configuration.
func NewBlobStorage(cfg Config) (BlobStorage, error) {
	switch strings.ToLower(cfg.Type) {
	case "local":
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("base_dir is required for local storage")
		}
		return NewLocalStorage(cfg.BaseDir)

	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("bucket is required for S3 storage")
		}
		if cfg.Region == "" {
			return nil, fmt.Errorf("region is required for S3 storage")
		}

		s3Storage, err := NewS3Storage(cfg.Bucket, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}

		if cfg.PresignExpiry > 0 {
			s3Storage.presignExpiration = cfg.PresignExpiry
		}

		return s3Storage, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ArtifactStore stores generation export artifacts on top of a BlobStorage.
// Completed generation tasks write their output here; the key is returned to
// the client through the task result.
type ArtifactStore struct {
	blobs BlobStorage
}

// NewArtifactStore creates an artifact store backed by the given storage.
func NewArtifactStore(blobs BlobStorage) *ArtifactStore {
	return &ArtifactStore{blobs: blobs}
}

// ExportKey returns the storage key for a generation task's export artifact.
func ExportKey(taskID uuid.UUID) string {
	return path.Join("exports", taskID.String()+".json")
}

// WriteExport serializes the artifact as JSON and stores it under the task's
// export key. Returns the key.
func (a *ArtifactStore) WriteExport(ctx context.Context, taskID uuid.UUID, artifact interface{}) (string, error) {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export artifact: %w", err)
	}

	key := ExportKey(taskID)
	if err := a.blobs.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to store export artifact: %w", err)
	}

	return key, nil
}

// ReadExport loads and deserializes the artifact stored for the task.
func (a *ArtifactStore) ReadExport(ctx context.Context, taskID uuid.UUID, out interface{}) error {
	reader, err := a.blobs.Download(ctx, ExportKey(taskID))
	if err != nil {
		return err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read export artifact: %w", err)
	}

	return json.Unmarshal(data, out)
}

// DeleteExport removes the artifact stored for the task.
func (a *ArtifactStore) DeleteExport(ctx context.Context, taskID uuid.UUID) error {
	return a.blobs.Delete(ctx, ExportKey(taskID))
}

// ExportURL returns an access URL for the task's stored artifact.
func (a *ArtifactStore) ExportURL(ctx context.Context, taskID uuid.UUID) (string, error) {
	return a.blobs.GetURL(ctx, ExportKey(taskID))
}
