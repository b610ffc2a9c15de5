// Package features turns raw document text into the comparison-ready
// bundle used by the matching engine.
package features

// Bundle is the extracted representation of one document. It is built once
// and never mutated afterwards.
type Bundle struct {
	Identifier    string      `json:"identifier"`
	RawText       string      `json:"-"`
	InvoiceNumber string      `json:"invoice_number"`
	Date          string      `json:"date"`
	Amount        string      `json:"amount"`
	Keywords      KeywordSet  `json:"keywords"`
	Structure     Fingerprint `json:"structure"`
}

// NewBundle extracts fields, keywords and structure from text
func NewBundle(identifier, text string) *Bundle {
	fields := ExtractFields(text)
	return &Bundle{
		Identifier:    identifier,
		RawText:       text,
		InvoiceNumber: fields.InvoiceNumber,
		Date:          fields.Date,
		Amount:        fields.Amount,
		Keywords:      ExtractKeywords(text),
		Structure:     ExtractStructure(text),
	}
}

// Fields returns the scalar fields of the bundle
func (b *Bundle) Fields() Fields {
	return Fields{
		InvoiceNumber: b.InvoiceNumber,
		Date:          b.Date,
		Amount:        b.Amount,
	}
}
