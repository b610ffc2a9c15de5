package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/knowledge-engine/docmatch/internal/report"
)

// ErrNotFound is returned when no report exists for an ID
var ErrNotFound = errors.New("report not found")

// ReportStorage defines the interface for saving match reports
type ReportStorage interface {
	Save(r *report.Report) error
	Get(id string) (*report.Report, error)
	Close() error
}

// FileStorage implements ReportStorage using the local file system
type FileStorage struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{
		baseDir: baseDir,
	}, nil
}

// Save writes the report to <id>.json
func (fs *FileStorage) Save(r *report.Report) error {
	path, err := fs.path(r.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	// write then rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Get retrieves a report from disk
func (fs *FileStorage) Get(id string) (*report.Report, error) {
	path, err := fs.path(id)
	if err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}

// Close is a no-op for file storage
func (fs *FileStorage) Close() error {
	return nil
}

// path maps a report ID to its file. Only UUIDs are accepted so an ID can
// never escape the base directory.
func (fs *FileStorage) path(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return filepath.Join(fs.baseDir, parsed.String()+".json"), nil
}
