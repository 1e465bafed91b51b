// Package analytics turns raw page text into filtered word tokens.
package analytics

import "strings"

// Tokenizer splits text into lowercase words and filters out short words,
// stop words, and purely numeric tokens.
type Tokenizer struct {
	stopWords    map[string]struct{}
	minLength    int
	allowNumeric bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStopWords replaces the built-in stop-word set.
func WithStopWords(words []string) Option {
	return func(t *Tokenizer) {
		t.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			t.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithExtraStopWords adds words on top of the active set.
func WithExtraStopWords(words []string) Option {
	return func(t *Tokenizer) {
		for _, w := range words {
			t.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithMinLength sets the minimum token length. Shorter tokens are dropped.
func WithMinLength(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.minLength = n
		}
	}
}

// WithNumeric allows digits inside tokens. Purely numeric tokens are still
// dropped.
func WithNumeric() Option {
	return func(t *Tokenizer) {
		t.allowNumeric = true
	}
}

// NewTokenizer returns a Tokenizer with the built-in stop words and a
// minimum token length of 3.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		stopWords: make(map[string]struct{}, len(defaultStopWords)),
		minLength: 3,
	}
	for w := range defaultStopWords {
		t.stopWords[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsStopword checks if a word is filtered out by this tokenizer's stop-word
// set.
func (t *Tokenizer) IsStopword(word string) bool {
	_, exists := t.stopWords[strings.ToLower(word)]
	return exists
}

// Tokenize splits text into lowercase word tokens in text order. Tokens
// shorter than the minimum length, stop words, and purely numeric tokens are
// dropped. The same input always yields the same output.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !t.isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if len(word) < t.minLength {
			continue
		}
		if t.allowNumeric && isNumeric(word) {
			continue
		}
		if _, stop := t.stopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// WordFrequency tokenizes text and counts occurrences per token.
func (t *Tokenizer) WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, word := range t.Tokenize(text) {
		frequencies[word]++
	}
	return frequencies
}

func (t *Tokenizer) isWordRune(r rune) bool {
	if 'a' <= r && r <= 'z' {
		return true
	}
	return t.allowNumeric && '0' <= r && r <= '9'
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
