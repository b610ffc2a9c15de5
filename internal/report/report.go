// Package report renders match results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/knowledge-engine/docmatch/internal/engine"
)

// FieldComparison pairs the query and matched value of one field
type FieldComparison struct {
	Name    string `json:"name"`
	Input   string `json:"input"`
	Matched string `json:"matched"`
}

// Report is the rendered view of a match result
type Report struct {
	ID              string            `json:"id"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Query           string            `json:"query"`
	Matched         bool              `json:"matched"`
	Identifier      string            `json:"identifier,omitempty"`
	Score           float64           `json:"score"`
	ContentScore    float64           `json:"content_score"`
	StructuralScore float64           `json:"structural_score"`
	Candidates      int               `json:"candidates"`
	Fields          []FieldComparison `json:"fields,omitempty"`
	SharedKeywords  []string          `json:"shared_keywords,omitempty"`
}

// Build creates a report from a match result
func Build(result *engine.Result) *Report {
	r := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Matched:     result.Matched(),
		Score:       result.Score,
		Candidates:  result.Candidates,
	}
	if result.Query != nil {
		r.Query = result.Query.Identifier
	}
	if !result.Matched() {
		return r
	}

	q, m := result.Query, result.Best
	r.Identifier = m.Identifier
	r.ContentScore = result.ContentScore
	r.StructuralScore = result.StructuralScore
	r.Fields = []FieldComparison{
		{Name: "Invoice Number", Input: q.InvoiceNumber, Matched: m.InvoiceNumber},
		{Name: "Date", Input: q.Date, Matched: m.Date},
		{Name: "Amount", Input: q.Amount, Matched: m.Amount},
	}
	r.SharedKeywords = q.Keywords.Intersect(m.Keywords).Sorted()
	return r
}

// WriteText prints the report in a human readable layout
func WriteText(w io.Writer, r *Report) error {
	if !r.Matched {
		_, err := fmt.Fprintln(w, "No similar documents found.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Most similar document: %s\n", r.Identifier)
	fmt.Fprintf(&b, "Combined similarity score: %.4f\n", r.Score)
	fmt.Fprintln(&b, "Matching features:")
	for _, f := range r.Fields {
		fmt.Fprintf(&b, "  %s: %s (input) vs %s (matched)\n", f.Name, f.Input, f.Matched)
	}
	fmt.Fprintf(&b, "  Keywords: %s\n", strings.Join(r.SharedKeywords, ", "))
	fmt.Fprintf(&b, "  Content Similarity: %.4f\n", r.ContentScore)
	fmt.Fprintf(&b, "  Structural Similarity: %.4f\n", r.StructuralScore)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON prints the report as indented JSON
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
