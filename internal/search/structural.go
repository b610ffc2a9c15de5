package search

import "github.com/knowledge-engine/docmatch/internal/features"

// StructuralSimilarity returns the fraction of query fingerprint keys whose
// line index is the same in the candidate. Keys only the candidate has are
// ignored. An empty query fingerprint has nothing to agree on and scores 0.
func StructuralSimilarity(query, candidate features.Fingerprint) float64 {
	if len(query) == 0 {
		return 0
	}
	var matched int
	for key, line := range query {
		if other, ok := candidate[key]; ok && other == line {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
