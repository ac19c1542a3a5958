// Package storage archives generated reports, either on the local
// filesystem or in S3-compatible object storage.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive is the report archive surface shared by the filesystem and S3
// backends.
type Archive interface {
	SaveReport(data []byte, name, format string) (string, error)
	ReadReport(key string) ([]byte, error)
	DeleteReport(key string) error
}

// Config contains filesystem storage configuration
type Config struct {
	BasePath string // Base directory for all stored files
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		BasePath: "./storage",
	}
}

// Storage archives reports on the local filesystem.
type Storage struct {
	config Config
}

// New creates a new Storage instance
func New(config Config) (*Storage, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Storage{config: config}, nil
}

// SaveReport writes a generated report under reports/YYYY/MM/ and returns
// the path relative to the base directory. Name collisions get a numeric
// suffix.
func (s *Storage) SaveReport(data []byte, name, format string) (string, error) {
	ext := extensionForFormat(format)

	now := time.Now()
	dirPath := filepath.Join(s.config.BasePath, "reports",
		fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())))

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := name + ext
	filePath := filepath.Join(dirPath, filename)
	counter := 1
	for fileExists(filePath) {
		filename = fmt.Sprintf("%s-%d%s", name, counter, ext)
		filePath = filepath.Join(dirPath, filename)
		counter++
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	relPath, err := filepath.Rel(s.config.BasePath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}
	return relPath, nil
}

// ReadReport reads an archived report by its relative path.
func (s *Storage) ReadReport(relPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.config.BasePath, relPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	return data, nil
}

// DeleteReport removes an archived report. Missing files are not an error.
func (s *Storage) DeleteReport(relPath string) error {
	if err := os.Remove(filepath.Join(s.config.BasePath, relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

// GetFullPath returns the full filesystem path for a relative path
func (s *Storage) GetFullPath(relPath string) string {
	return filepath.Join(s.config.BasePath, relPath)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// extensionForFormat maps a report format to a file extension.
func extensionForFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return ".md"
	case "html":
		return ".html"
	case "csv":
		return ".csv"
	case "pdf":
		return ".pdf"
	default:
		return ".txt"
	}
}

// ContentTypeForFormat maps a report format to its MIME type.
func ContentTypeForFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return "text/markdown; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "csv":
		return "text/csv; charset=utf-8"
	case "pdf":
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}
