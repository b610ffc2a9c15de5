package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Enumerator lists the document handles available at a location. The
// order must be stable between calls.
type Enumerator interface {
	List(ctx context.Context, location string) ([]string, error)
}

// DirectoryEnumerator lists regular files in a single directory, sorted by
// name. Subdirectories are not descended into.
type DirectoryEnumerator struct {
	// Extensions restricts the listing, compared case-insensitively.
	// Empty means every file.
	Extensions []string
}

func NewDirectoryEnumerator(extensions ...string) *DirectoryEnumerator {
	return &DirectoryEnumerator{Extensions: extensions}
}

func (e *DirectoryEnumerator) List(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus directory: %w", err)
	}

	var handles []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !e.accepts(entry.Name()) {
			continue
		}
		handles = append(handles, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(handles)
	return handles, nil
}

func (e *DirectoryEnumerator) accepts(name string) bool {
	if len(e.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range e.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
