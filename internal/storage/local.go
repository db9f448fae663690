package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStorage implements the Storage interface for local filesystem
type LocalFileStorage struct {
	outputDir string
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(outputDir string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	return &LocalFileStorage{outputDir: outputDir}, nil
}

// AssetPath returns the path of the downloaded bundle for an asset
func (s *LocalFileStorage) AssetPath(assetName string) string {
	return filepath.Join(s.outputDir, FileName(assetName))
}

// FileExists checks if a file exists
func (s *LocalFileStorage) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes a downloaded bundle; a missing bundle is not an error
func (s *LocalFileStorage) Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ListBundles lists the downloaded bundles in the output directory
func (s *LocalFileStorage) ListBundles() ([]string, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var results []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !strings.HasSuffix(entry.Name(), "."+PackageExt) {
			continue
		}
		results = append(results, filepath.Join(s.outputDir, entry.Name()))
	}

	return results, nil
}

// Locator returns the path itself; local bundles are read in place
func (s *LocalFileStorage) Locator(path string) string {
	return path
}
