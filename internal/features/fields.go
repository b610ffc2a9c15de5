package features

import (
	"regexp"
	"strings"
)

// NotFound is stored in a scalar field when its pattern does not match.
const NotFound = "N/A"

var (
	invoiceNumberPattern = regexp.MustCompile(`Invoice Number:\s*(\w+)`)
	datePattern          = regexp.MustCompile(`Date:\s*(\d{2}/\d{2}/\d{4})`)
	amountPattern        = regexp.MustCompile(`Amount:\s*\$?(\d+\.\d{2})`)
)

// Labels searched for when building a structural fingerprint
const (
	InvoiceNumberLabel = "Invoice Number:"
	DateLabel          = "Date:"
	AmountLabel        = "Amount:"
)

// Fingerprint keys
const (
	InvoiceNumberLine = "invoice_number_line"
	DateLine          = "date_line"
	AmountLine        = "amount_line"
)

// Fields holds the scalar values pulled out of a document
type Fields struct {
	InvoiceNumber string `json:"invoice_number"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
}

// Fingerprint maps a field key to the zero-based line index of its label.
// Fields without a label in the text have no entry.
type Fingerprint map[string]int

// ExtractFields applies the field patterns and keeps the first capture of
// the first match. Values are not normalized.
func ExtractFields(text string) Fields {
	return Fields{
		InvoiceNumber: firstCapture(invoiceNumberPattern, text),
		Date:          firstCapture(datePattern, text),
		Amount:        firstCapture(amountPattern, text),
	}
}

func firstCapture(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return NotFound
	}
	return m[1]
}

// ExtractStructure records, for every label, the index of the line it
// appears on. A label seen on several lines keeps the last index.
func ExtractStructure(text string) Fingerprint {
	structure := make(Fingerprint)
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, InvoiceNumberLabel) {
			structure[InvoiceNumberLine] = i
		}
		if strings.Contains(line, DateLabel) {
			structure[DateLine] = i
		}
		if strings.Contains(line, AmountLabel) {
			structure[AmountLine] = i
		}
	}
	return structure
}
