// Package mapreduce combines per-page word counts into one frequency table
// and ranks it.
package mapreduce

import "github.com/dtnitsch/wikifreq/pkg/analytics"

// Map generates a word frequency map for a single page's text.
func Map(content string, tok *analytics.Tokenizer) map[string]int {
	return tok.WordFrequency(content)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
