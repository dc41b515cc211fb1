package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	salesapp "github.com/lababil/pos/internal/application/sales"
	"go.uber.org/zap"
)

// Ensure FileSystemStorage implements ObjectStorage
var _ salesapp.ObjectStorage = (*FileSystemStorage)(nil)

// ErrInvalidPath is returned for keys that are absolute or escape the base directory
var ErrInvalidPath = errors.New("invalid storage path")

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for archived files
	BasePath string
	// BaseURL is the URL prefix the archive route is served under
	// Example: /api/v1/receipts/archive
	BaseURL string
	Logger  *zap.Logger
}

// FileSystemStorage keeps archived receipts on the local disk. Download URLs
// point at an authenticated route instead of being presigned.
type FileSystemStorage struct {
	basePath string
	baseURL  string
	logger   *zap.Logger
}

// NewFileSystemStorage creates the base directory if needed
func NewFileSystemStorage(cfg FileSystemStorageConfig) (*FileSystemStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./data/receipts"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/api/v1/receipts/archive"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", cfg.BasePath, err)
	}

	return &FileSystemStorage{
		basePath: cfg.BasePath,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:   cfg.Logger,
	}, nil
}

// Upload writes data under storageKey. The file is written to a temporary
// name first and renamed so readers never see a partial PDF.
func (s *FileSystemStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	s.logger.Info("File stored",
		zap.String("path", fullPath),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))
	return nil
}

// GenerateDownloadURL returns the archive route URL for storageKey
func (s *FileSystemStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if _, err := s.resolve(storageKey); err != nil {
		return "", time.Time{}, err
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}
	url := s.baseURL + "/" + filepath.ToSlash(filepath.Clean(storageKey))
	return url, time.Now().Add(expiresIn), nil
}

// Open returns the stored file. Missing files return a NOT_FOUND domain error.
func (s *FileSystemStorage) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errArchiveNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// resolve maps a storage key to a path under the base directory
func (s *FileSystemStorage) resolve(storageKey string) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}

	cleanPath := filepath.Clean(storageKey)
	// Check the raw key for ".." since Clean would fold it away
	if filepath.IsAbs(cleanPath) || containsDotDot(storageKey) {
		s.logger.Warn("Blocked potentially malicious path", zap.String("path", storageKey))
		return "", ErrInvalidPath
	}

	fullPath := filepath.Join(s.basePath, cleanPath)

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("Path escape attempt blocked",
			zap.String("path", storageKey),
			zap.String("abs_path", absPath))
		return "", ErrInvalidPath
	}

	return fullPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}
