package search

import "fmt"

// Scope selects which texts the TF-IDF statistics are fitted over
type Scope string

const (
	// ScopePair fits a fresh model over the two texts being compared
	ScopePair Scope = "pair"
	// ScopeCorpus fits one model over the whole corpus and reuses it
	ScopeCorpus Scope = "corpus"
)

// ParseScope validates a scope name
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopePair, ScopeCorpus:
		return Scope(s), nil
	case "":
		return ScopePair, nil
	}
	return "", fmt.Errorf("unknown idf scope %q (want %q or %q)", s, ScopePair, ScopeCorpus)
}

// ContentScorer compares two raw texts and returns a score in [0, 1]
type ContentScorer interface {
	Similarity(a, b string) float64
}

// ContentSimilarity returns the TF-IDF cosine of two texts, with the model
// fitted over exactly those two texts. The IDF therefore comes from a
// two-document corpus on every call. Texts that are empty or share no
// vocabulary score 0.
func ContentSimilarity(text1, text2 string) float64 {
	v := NewTFIDFVectorizer()
	v.Fit([]string{text1, text2})
	if len(v.Vocabulary) == 0 {
		return 0
	}
	return clamp(CosineSimilarity(v.Transform(text1), v.Transform(text2)))
}

// PairwiseScorer scores every pair independently with ContentSimilarity
type PairwiseScorer struct{}

func (PairwiseScorer) Similarity(a, b string) float64 {
	return ContentSimilarity(a, b)
}

// CorpusScorer uses a single model fitted over a corpus. Vectors of the
// corpus texts are computed once; it is safe for concurrent use.
type CorpusScorer struct {
	vectorizer *TFIDFVectorizer
	vectors    map[string][]float64
}

// NewCorpusScorer fits the model over texts and caches their vectors
func NewCorpusScorer(texts []string) *CorpusScorer {
	v := NewTFIDFVectorizer()
	v.Fit(texts)
	vectors := make(map[string][]float64, len(texts))
	for _, text := range texts {
		if _, ok := vectors[text]; !ok {
			vectors[text] = v.Transform(text)
		}
	}
	return &CorpusScorer{vectorizer: v, vectors: vectors}
}

func (s *CorpusScorer) Similarity(a, b string) float64 {
	return clamp(CosineSimilarity(s.vector(a), s.vector(b)))
}

func (s *CorpusScorer) vector(text string) []float64 {
	if vec, ok := s.vectors[text]; ok {
		return vec
	}
	return s.vectorizer.Transform(text)
}

// VocabularySize reports the number of terms in the fitted model
func (s *CorpusScorer) VocabularySize() int {
	return len(s.vectorizer.Vocabulary)
}
