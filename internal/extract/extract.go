// Package extract turns document handles into raw text. Each format has an
// Extractor; the Registry resolves a handle to bytes and dispatches on
// extension or media type.
package extract

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates an empty handle or nil content
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no extractor handles the document
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrToolNotFound indicates an external conversion tool is missing
	ErrToolNotFound = errors.New("extraction tool not found")
)

// Error reports a failed extraction. Callers match it with errors.As to
// tell unreadable documents apart from other failures.
type Error struct {
	Handle string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Handle, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extractor converts the bytes of one document format to text
type Extractor interface {
	// Extensions returns the file extensions handled, with leading dot
	Extensions() []string

	// MediaTypes returns the MIME types handled
	MediaTypes() []string

	// Extract returns the full text of content. name is used for messages.
	Extract(ctx context.Context, name string, content []byte) (string, error)
}
