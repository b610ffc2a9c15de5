// Package corpus holds the ordered set of known documents and loads it from
// a document source.
package corpus

import (
	"time"

	"github.com/knowledge-engine/docmatch/internal/features"
)

// Corpus is an ordered, read-only collection of feature bundles. Order is
// the enumeration order and decides ties when matching.
type Corpus struct {
	docs     []*features.Bundle
	loadedAt time.Time
}

// New creates a corpus holding docs in the given order
func New(docs ...*features.Bundle) *Corpus {
	owned := make([]*features.Bundle, len(docs))
	copy(owned, docs)
	return &Corpus{docs: owned, loadedAt: time.Now()}
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.docs)
}

// At returns the i-th document
func (c *Corpus) At(i int) *features.Bundle {
	return c.docs[i]
}

// Documents returns a copy of the document slice
func (c *Corpus) Documents() []*features.Bundle {
	if c == nil {
		return nil
	}
	out := make([]*features.Bundle, len(c.docs))
	copy(out, c.docs)
	return out
}

// Texts returns the raw text of every document in corpus order
func (c *Corpus) Texts() []string {
	if c == nil {
		return nil
	}
	texts := make([]string, len(c.docs))
	for i, d := range c.docs {
		texts[i] = d.RawText
	}
	return texts
}

// Identifiers returns document identifiers in corpus order
func (c *Corpus) Identifiers() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.docs))
	for i, d := range c.docs {
		ids[i] = d.Identifier
	}
	return ids
}

func (c *Corpus) LoadedAt() time.Time {
	return c.loadedAt
}
