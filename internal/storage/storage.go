package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage defines the interface for spooling uploaded files
type Storage interface {
	// StoreFromReader copies r into a new file whose name keeps ext
	StoreFromReader(ctx context.Context, ext string, r io.Reader) (string, error)

	// Delete removes a file from storage
	Delete(ctx context.Context, path string) error
}

// LocalStorage implements Storage interface using local filesystem
type LocalStorage struct {
	tempDir string
}

// NewLocalStorage creates a new LocalStorage instance
func NewLocalStorage(tempDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(tempDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	abs, err := filepath.Abs(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve temp directory: %w", err)
	}
	return &LocalStorage{tempDir: abs}, nil
}

func (s *LocalStorage) StoreFromReader(ctx context.Context, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Extensions come from client filenames; keep only a plain suffix.
	if strings.ContainsAny(ext, `/\`) || len(ext) > 16 {
		ext = ""
	}

	tempFile, err := os.CreateTemp(s.tempDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, r); err != nil {
		os.Remove(tempFile.Name()) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return tempFile.Name(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	// Verify the path is within our temp directory
	rel, err := filepath.Rel(s.tempDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return fmt.Errorf("invalid file path: must be within temp directory")
	}
	return os.Remove(path)
}
