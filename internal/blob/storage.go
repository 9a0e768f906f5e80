// Package blob stores period exports in local, S3 or GCS blob storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ninebox/ninebox/pkg/config"
)

var (
	// ErrNotFound is returned when the requested export does not exist.
	ErrNotFound = errors.New("export not found")
	// ErrInvalidKey is returned for periods or export IDs that are not a
	// single path segment.
	ErrInvalidKey = errors.New("invalid storage path segment")
)

// StorageClient abstracts blob storage for period exports.
type StorageClient interface {
	PutExport(ctx context.Context, period, exportID string, data []byte) (string, error)
	GetExport(ctx context.Context, period, exportID string) ([]byte, error)
}

// New creates the StorageClient selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (StorageClient, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath), nil
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// objectKey builds "<period>/exports/<id>.json", rejecting segments that
// could escape the period prefix.
func objectKey(period, exportID string) (string, error) {
	for _, seg := range []string{period, exportID} {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return "", fmt.Errorf("%w %q", ErrInvalidKey, seg)
		}
	}
	return period + "/exports/" + exportID + ".json", nil
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(period, exportID string) (string, error) {
	key, err := objectKey(period, exportID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BaseDir, filepath.FromSlash(key)), nil
}

// PutExport writes the export and returns its file path.
func (s *LocalStorage) PutExport(_ context.Context, period, exportID string, data []byte) (string, error) {
	path, err := s.path(period, exportID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return "file://" + path, nil
}

// GetExport reads an export written by PutExport.
func (s *LocalStorage) GetExport(_ context.Context, period, exportID string) ([]byte, error) {
	path, err := s.path(period, exportID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
