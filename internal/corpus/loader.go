package corpus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docmatch/internal/extract"
	"github.com/knowledge-engine/docmatch/internal/features"
)

// TextExtractor returns the full text of the document behind a handle
type TextExtractor interface {
	Extract(ctx context.Context, handle string) (string, error)
}

// Loader builds a corpus by enumerating a location and extracting every
// document found there.
type Loader struct {
	Enumerator Enumerator
	Extractor  TextExtractor
	Logger     *logrus.Entry
	// SkipUnreadable drops documents whose extraction fails instead of
	// aborting the load.
	SkipUnreadable bool
}

func NewLoader(enum Enumerator, ext TextExtractor, logger *logrus.Entry, skipUnreadable bool) *Loader {
	return &Loader{
		Enumerator:     enum,
		Extractor:      ext,
		Logger:         logger.WithField("component", "corpus"),
		SkipUnreadable: skipUnreadable,
	}
}

// Load returns a corpus of the documents at location, in enumeration order.
// Only extraction failures are subject to SkipUnreadable; any other error
// aborts the load.
func (l *Loader) Load(ctx context.Context, location string) (*Corpus, error) {
	handles, err := l.Enumerator.List(ctx, location)
	if err != nil {
		return nil, err
	}

	docs := make([]*features.Bundle, 0, len(handles))
	skipped := 0
	for _, handle := range handles {
		text, err := l.Extractor.Extract(ctx, handle)
		if err != nil {
			var extErr *extract.Error
			if l.SkipUnreadable && errors.As(err, &extErr) {
				l.Logger.WithError(err).WithField("handle", handle).Warn("Skipping unreadable document")
				skipped++
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", handle, err)
		}
		docs = append(docs, features.NewBundle(filepath.Base(handle), text))
	}

	l.Logger.WithFields(logrus.Fields{
		"location":  location,
		"documents": len(docs),
		"skipped":   skipped,
	}).Info("Corpus loaded")

	return New(docs...), nil
}
