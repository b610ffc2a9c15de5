package extract

import (
	"bytes"
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockTags end a line of extracted text, so labels that sit in separate
// elements land on separate lines.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "tr": true, "ul": true,
}

// HTML extracts visible text from HTML, one line per block element
type HTML struct{}

func NewHTML() *HTML {
	return &HTML{}
}

func (h *HTML) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

func (h *HTML) MediaTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (h *HTML) Extract(_ context.Context, _ string, content []byte) (string, error) {
	if content == nil {
		return "", ErrInvalidInput
	}

	tokenizer := html.NewTokenizer(bytes.NewReader(content))
	var textBuilder strings.Builder
	inScript := false
	inStyle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return cleanLines(textBuilder.String()), nil
			}
			return "", tokenizer.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = tokenType == html.StartTagToken
			case "style":
				inStyle = tokenType == html.StartTagToken
			case "td", "th":
				textBuilder.WriteString(" ")
			}
			if blockTags[token.Data] {
				textBuilder.WriteString("\n")
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}
			if blockTags[token.Data] {
				textBuilder.WriteString("\n")
			}

		case html.TextToken:
			if !inScript && !inStyle {
				textBuilder.WriteString(tokenizer.Token().Data)
			}
		}
	}
}

// cleanLines collapses whitespace inside each line and drops empty lines
func cleanLines(input string) string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		if cleaned := strings.Join(strings.Fields(line), " "); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return strings.Join(lines, "\n")
}
