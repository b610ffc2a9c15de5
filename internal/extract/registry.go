package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/knowledge-engine/docmatch/internal/config"
	"github.com/knowledge-engine/docmatch/internal/fetcher"
	"github.com/knowledge-engine/docmatch/internal/politeness"
)

// Registry resolves handles to text. Local paths are read from disk and
// http(s) URLs are downloaded with the fetcher.
type Registry struct {
	byExtension map[string]Extractor
	byMediaType map[string]Extractor
	fetch       *fetcher.Fetcher
}

// NewRegistry creates a registry with the given extractors. A nil fetcher
// disables remote handles. Later extractors override earlier ones for the
// same extension or media type.
func NewRegistry(fetch *fetcher.Fetcher, extractors ...Extractor) *Registry {
	r := &Registry{
		byExtension: make(map[string]Extractor),
		byMediaType: make(map[string]Extractor),
		fetch:       fetch,
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// NewDefaultRegistry wires the plaintext, HTML and PDF extractors. Remote
// fetches go through a politeness gate.
func NewDefaultRegistry(cfg config.ExtractConfig) *Registry {
	fetch := fetcher.NewFetcher(cfg.HTTPTimeout, cfg.UserAgent)
	fetch.WithGate(politeness.NewGate(politeness.Config{
		MinDelay:      cfg.MinHostDelay,
		RespectRobots: cfg.RespectRobots,
		RobotsTTL:     24 * time.Hour,
		UserAgent:     cfg.UserAgent,
	}, fetch.Client(), nil))

	return NewRegistry(
		fetch,
		NewPlaintext(),
		NewHTML(),
		NewPDF(cfg.PDFToTextPath),
	)
}

func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
	for _, mt := range e.MediaTypes() {
		r.byMediaType[mt] = e
	}
}

// Supports reports whether the handle's extension has an extractor
func (r *Registry) Supports(handle string) bool {
	_, ok := r.byExtension[extension(handle)]
	return ok
}

// Extract returns the text behind handle. Every failure is an *Error.
func (r *Registry) Extract(ctx context.Context, handle string) (string, error) {
	text, err := r.extract(ctx, handle)
	if err != nil {
		return "", &Error{Handle: handle, Err: err}
	}
	return text, nil
}

func (r *Registry) extract(ctx context.Context, handle string) (string, error) {
	if handle == "" {
		return "", ErrInvalidInput
	}

	if isRemote(handle) {
		if r.fetch == nil {
			return "", fmt.Errorf("%w: remote handles disabled", ErrUnsupportedFormat)
		}
		res, err := r.fetch.Fetch(ctx, handle)
		if err != nil {
			return "", err
		}
		e, ok := r.byMediaType[res.ContentType]
		if !ok {
			e, ok = r.byExtension[extension(handle)]
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, res.ContentType)
		}
		return e.Extract(ctx, handle, res.Body)
	}

	e, ok := r.byExtension[extension(handle)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(handle))
	}
	content, err := os.ReadFile(handle)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return e.Extract(ctx, handle, content)
}

// IsExtractionError reports whether err came from a failed extraction
func IsExtractionError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func isRemote(handle string) bool {
	return strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://")
}

func extension(handle string) string {
	if isRemote(handle) {
		if u, err := url.Parse(handle); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(handle))
}
