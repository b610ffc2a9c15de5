package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/docmatch/internal/config"
	"github.com/knowledge-engine/docmatch/internal/corpus"
	"github.com/knowledge-engine/docmatch/internal/engine"
	"github.com/knowledge-engine/docmatch/internal/features"
	"github.com/knowledge-engine/docmatch/internal/logger"
)

const invoiceText = "Invoice Number: A100\nDate: 01/02/2020\nAmount: $50.00"

func newEngine(t *testing.T, scope string, workers int) *engine.Engine {
	t.Helper()
	eng, err := engine.New(config.MatchConfig{IDFScope: scope, Workers: workers}, logger.Discard())
	require.NoError(t, err)
	return eng
}

func TestNew(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	assert.NotNil(t, eng)

	_, err := engine.New(config.MatchConfig{IDFScope: "everything", Workers: 1}, logger.Discard())
	assert.Error(t, err)

	_, err = engine.New(config.MatchConfig{IDFScope: "pair", Workers: 0}, logger.Discard())
	assert.Error(t, err)
}

func TestMatch_IdenticalDocument(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	known := features.NewBundle("a100.pdf", invoiceText)
	query := features.NewBundle("input_invoice.pdf", invoiceText)

	result := eng.Match(query, corpus.New(known))

	require.True(t, result.Matched())
	assert.Same(t, known, result.Best)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.InDelta(t, 1.0, result.ContentScore, 1e-9)
	assert.Equal(t, 1.0, result.StructuralScore)
	assert.Equal(t, "A100", result.Best.InvoiceNumber)
	assert.Same(t, query, result.Query)
	assert.Equal(t, 1, result.Candidates)
}

func TestMatch_EmptyCorpus(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	result := eng.Match(features.NewBundle("q", invoiceText), corpus.New())

	assert.False(t, result.Matched())
	assert.Nil(t, result.Best)
	assert.Zero(t, result.Score)
	assert.Zero(t, result.Candidates)
}

func TestMatch_ZeroScoreIsNoMatch(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	query := features.NewBundle("q", "random text")
	assert.Empty(t, query.Structure)

	result := eng.Match(query, corpus.New(features.NewBundle("x", "entirely different words")))

	assert.False(t, result.Matched())
	assert.Zero(t, result.Score)
	assert.Equal(t, 1, result.Candidates)
}

func TestMatch_NoFieldQueryStillMatchesOnContent(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	query := features.NewBundle("q", "random text")
	doc := features.NewBundle("d", "random text")

	result := eng.Match(query, corpus.New(doc))

	require.True(t, result.Matched())
	assert.Zero(t, result.StructuralScore)
	assert.InDelta(t, 0.5, result.Score, 1e-9)
}

func TestMatch_TieGoesToFirst(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	first := features.NewBundle("first.pdf", invoiceText)
	second := features.NewBundle("second.pdf", invoiceText)

	result := eng.Match(features.NewBundle("q", invoiceText), corpus.New(first, second))
	assert.Same(t, first, result.Best)
}

func TestMatch_HighLowHigh(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	query := features.NewBundle("q", invoiceText+"\nAcme Corp")
	high1 := features.NewBundle("high1", invoiceText)
	low := features.NewBundle("low", "Purchase order\nAcme Corp")
	high2 := features.NewBundle("high2", invoiceText)

	c := corpus.New(high1, low, high2)
	candidates := eng.ScoreAll(query, c)
	require.Len(t, candidates, 3)
	assert.Equal(t, candidates[0].Combined, candidates[2].Combined)
	assert.Greater(t, candidates[0].Combined, candidates[1].Combined)

	result := eng.Match(query, c)
	assert.Same(t, high1, result.Best)
}

func TestMatch_PrefersStructure(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	query := features.NewBundle("q", "Invoice Number: Q1\nDate: 05/05/2022\nAmount: $10.00")
	shuffled := features.NewBundle("shuffled", "Amount: $10.00\nInvoice Number: Q1\nDate: 05/05/2022")
	aligned := features.NewBundle("aligned", "Invoice Number: Z9\nDate: 01/01/2019\nAmount: $99.00")

	result := eng.Match(query, corpus.New(shuffled, aligned))

	// shuffled has the same tokens but no label on the same line, so it
	// tops out at 0.5; the aligned layout wins despite different values
	require.True(t, result.Matched())
	assert.Equal(t, "aligned", result.Best.Identifier)
	assert.Equal(t, 1.0, result.StructuralScore)
}

func TestMatch_Deterministic(t *testing.T) {
	eng := newEngine(t, "pair", 1)
	c := buildCorpus(20)
	query := features.NewBundle("q", "Invoice Number: INV7\nDate: 07/07/2020\nAmount: $70.00\nitem 7")

	first := eng.Match(query, c)
	for i := 0; i < 5; i++ {
		again := eng.Match(query, c)
		assert.Same(t, first.Best, again.Best)
		assert.Equal(t, first.Score, again.Score)
	}
}

func TestScoreAll_ParallelMatchesSequential(t *testing.T) {
	c := buildCorpus(50)
	query := features.NewBundle("q", "Invoice Number: INV3\nDate: 03/03/2020\nAmount: $30.00\nitem 3")

	sequential := newEngine(t, "pair", 1)
	parallel := newEngine(t, "pair", 8)

	want := sequential.ScoreAll(query, c)
	got := parallel.ScoreAll(query, c)
	assert.Equal(t, want, got)

	assert.Same(t, sequential.Match(query, c).Best, parallel.Match(query, c).Best)
}

func TestMatch_ParallelTieGoesToFirst(t *testing.T) {
	docs := make([]*features.Bundle, 32)
	for i := range docs {
		docs[i] = features.NewBundle(fmt.Sprintf("copy-%02d", i), invoiceText)
	}
	result := newEngine(t, "pair", 8).Match(features.NewBundle("q", invoiceText), corpus.New(docs...))
	assert.Same(t, docs[0], result.Best)
}

func TestMatch_CorpusScope(t *testing.T) {
	c := buildCorpus(10)
	eng := newEngine(t, "corpus", 4)
	target := c.At(4)

	result := eng.Match(features.NewBundle("q", target.RawText), c)

	require.True(t, result.Matched())
	assert.Same(t, target, result.Best)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
}

func buildCorpus(n int) *corpus.Corpus {
	docs := make([]*features.Bundle, n)
	for i := range docs {
		text := fmt.Sprintf("Invoice Number: INV%d\nDate: %02d/%02d/2020\nAmount: $%d0.00\nitem %d", i, i%12+1, i%28+1, i, i)
		if i%3 == 0 {
			text = "Vendor header\n" + text
		}
		docs[i] = features.NewBundle(fmt.Sprintf("doc-%02d.pdf", i), text)
	}
	return corpus.New(docs...)
}
