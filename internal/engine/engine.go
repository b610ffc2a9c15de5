package engine

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docmatch/internal/config"
	"github.com/knowledge-engine/docmatch/internal/corpus"
	"github.com/knowledge-engine/docmatch/internal/features"
	"github.com/knowledge-engine/docmatch/internal/search"
)

// Candidate is the score of one corpus document against a query
type Candidate struct {
	Document   *features.Bundle
	Index      int
	Content    float64
	Structural float64
	Combined   float64
}

// Result is the outcome of one matching request. Best is nil when no
// document scored above zero.
type Result struct {
	Best            *features.Bundle
	Score           float64
	ContentScore    float64
	StructuralScore float64
	Query           *features.Bundle
	Candidates      int
}

// Matched reports whether a best document was found
func (r *Result) Matched() bool {
	return r.Best != nil
}

// Engine ranks corpus documents against a query
type Engine struct {
	Scope   search.Scope
	Workers int
	Logger  *logrus.Entry
}

func New(cfg config.MatchConfig, logger *logrus.Entry) (*Engine, error) {
	scope, err := search.ParseScope(cfg.IDFScope)
	if err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return &Engine{
		Scope:   scope,
		Workers: cfg.Workers,
		Logger:  logger.WithField("component", "engine"),
	}, nil
}

// ScoreAll scores every corpus document against query. Results are in
// corpus order whatever the number of workers.
func (e *Engine) ScoreAll(query *features.Bundle, c *corpus.Corpus) []Candidate {
	docs := c.Documents()
	candidates := make([]Candidate, len(docs))
	if len(docs) == 0 {
		return candidates
	}

	scorer := e.contentScorer(c)
	score := func(i int) {
		doc := docs[i]
		content := scorer.Similarity(query.RawText, doc.RawText)
		structural := search.StructuralSimilarity(query.Structure, doc.Structure)
		candidates[i] = Candidate{
			Document:   doc,
			Index:      i,
			Content:    content,
			Structural: structural,
			Combined:   (content + structural) / 2,
		}
	}

	workers := e.Workers
	if workers > len(docs) {
		workers = len(docs)
	}
	if workers <= 1 {
		for i := range docs {
			score(i)
		}
		return candidates
	}

	// each index is written by exactly one worker
	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				score(i)
			}
		}()
	}
	for i := range docs {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return candidates
}

// Match returns the document with the highest combined score. Ties go to
// the earliest document in corpus order, and a score of exactly zero is
// never a match.
func (e *Engine) Match(query *features.Bundle, c *corpus.Corpus) *Result {
	result := &Result{Query: query, Candidates: c.Len()}

	for _, cand := range e.ScoreAll(query, c) {
		e.Logger.WithFields(logrus.Fields{
			"document":   cand.Document.Identifier,
			"content":    cand.Content,
			"structural": cand.Structural,
			"combined":   cand.Combined,
		}).Debug("Scored candidate")

		if cand.Combined > result.Score {
			result.Best = cand.Document
			result.Score = cand.Combined
			result.ContentScore = cand.Content
			result.StructuralScore = cand.Structural
		}
	}

	entry := e.Logger.WithFields(logrus.Fields{
		"query":      query.Identifier,
		"candidates": result.Candidates,
		"score":      result.Score,
	})
	if result.Matched() {
		entry.WithField("match", result.Best.Identifier).Info("Match found")
	} else {
		entry.Info("No match found")
	}
	return result
}

func (e *Engine) contentScorer(c *corpus.Corpus) search.ContentScorer {
	if e.Scope == search.ScopeCorpus {
		return search.NewCorpusScorer(c.Texts())
	}
	return search.PairwiseScorer{}
}
