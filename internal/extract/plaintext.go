package extract

import "context"

// Plaintext returns text files unchanged
type Plaintext struct{}

func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

func (p *Plaintext) Extensions() []string {
	return []string{".txt", ".text", ".md", ".csv"}
}

func (p *Plaintext) MediaTypes() []string {
	return []string{"text/plain", "text/markdown", "text/csv"}
}

func (p *Plaintext) Extract(_ context.Context, _ string, content []byte) (string, error) {
	if content == nil {
		return "", ErrInvalidInput
	}
	return string(content), nil
}
