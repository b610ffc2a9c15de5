package search

import (
	"math"
	"sort"
)

// Vectorizer turns text into a vector
type Vectorizer interface {
	Fit(docs []string)
	Transform(text string) []float64
}

// TFIDFVectorizer weights raw term counts by smoothed inverse document
// frequency and scales every vector to unit length.
type TFIDFVectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: make(map[string]int),
	}
}

// Fit builds the vocabulary and IDF weights from docs, replacing any
// previous fit. Vocabulary indices follow lexical term order.
func (v *TFIDFVectorizer) Fit(docs []string) {
	docCount := float64(len(docs))
	wordDocCounts := make(map[string]int)

	for _, doc := range docs {
		seenInDoc := make(map[string]bool)
		for _, token := range Tokenize(doc) {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
		}
	}

	terms := make([]string, 0, len(wordDocCounts))
	for term := range wordDocCounts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// idf = ln((1 + n) / (1 + df)) + 1
		v.IDF[i] = math.Log((1+docCount)/(1+float64(wordDocCounts[term]))) + 1
	}
}

// Transform converts text to an L2-normalized vector over the fitted
// vocabulary. Terms outside the vocabulary are ignored; a text with no
// known terms yields the zero vector.
func (v *TFIDFVectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.Vocabulary))
	for _, token := range Tokenize(text) {
		if idx, exists := v.Vocabulary[token]; exists {
			vector[idx]++
		}
	}

	var norm float64
	for i, count := range vector {
		vector[i] = count * v.IDF[i]
		norm += vector[i] * vector[i]
	}
	if norm == 0 {
		return vector
	}
	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}

// CosineSimilarity calculates the cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// clamp keeps rounding noise from pushing a score outside [0, 1]
func clamp(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}
