// Package storage keeps uploaded book payloads on disk, one directory per
// book id, alongside helpers for inspecting PDF files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore saves uploaded files under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes a file payload under a book-specific folder and returns the
// stored path.
func (f *FileStore) Save(bookID, filename string, r io.Reader) (string, error) {
	targetDir := filepath.Join(f.basePath, bookID)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create book dir: %w", err)
	}
	target := filepath.Join(targetDir, safeFilename(filename))

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return target, nil
}

// Open returns the stored payload for a book, or an error when none exists.
func (f *FileStore) Open(bookID string) (io.ReadCloser, error) {
	targetDir := filepath.Join(f.basePath, bookID)
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return nil, fmt.Errorf("read book dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			return os.Open(filepath.Join(targetDir, entry.Name()))
		}
	}
	return nil, fmt.Errorf("no payload stored for book %s", bookID)
}

// Delete removes all files for a book. Deleting an unknown book is a no-op.
func (f *FileStore) Delete(bookID string) error {
	targetDir := filepath.Join(f.basePath, bookID)
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(targetDir)
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" {
		return "book"
	}
	return name
}
