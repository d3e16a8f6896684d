package indexer

import "strings"

// Tokenizer splits a textual field's raw value into tokens. The
// HTML-aware tokenizer and Krovetz stemmer dictionary are out-of-scope
// external collaborators; WhitespaceTokenizer is the in-scope stand-in
// any caller can swap out.
type Tokenizer interface {
	Tokenize(text string) []string
}

// WhitespaceTokenizer lowercases and splits on anything that isn't a
// letter or digit, dropping empty tokens.
type WhitespaceTokenizer struct{}

func (WhitespaceTokenizer) Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
