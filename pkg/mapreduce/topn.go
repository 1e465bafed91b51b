package mapreduce

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dtnitsch/wikifreq/models"
)

// Rank orders a frequency table by count descending, breaking ties by word
// ascending so equal counts always appear in the same order. n limits the
// result; n <= 0 or n past the end returns the full ranking.
func Rank(wordCounts map[string]int, n int) []models.WordCount {
	ranked := make([]models.WordCount, 0, len(wordCounts))
	for word, count := range wordCounts {
		ranked = append(ranked, models.WordCount{Word: word, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// TopKeywords returns the top N words as "word:count" strings
// (e.g. "learning:1153"), for run summaries and log lines.
func TopKeywords(wordCounts map[string]int, n int) []string {
	ranked := Rank(wordCounts, n)

	keywords := make([]string, len(ranked))
	for i, wc := range ranked {
		keywords[i] = fmt.Sprintf("%s:%d", wc.Word, wc.Count)
	}
	return keywords
}

// PrintTable writes the console frequency report: a banner, table totals,
// and the ranked words in fixed-width columns.
func PrintTable(w io.Writer, ranked []models.WordCount, stats models.RunStats) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No words to analyze.")
		return
	}

	divider := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", divider)
	fmt.Fprintln(w, "WORD FREQUENCY ANALYSIS RESULTS")
	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprintf(w, "Total unique words: %d\n", stats.TotalUniqueWords)
	fmt.Fprintf(w, "Total word occurrences: %d\n", stats.TotalOccurrences)

	fmt.Fprintf(w, "\nTop %d most frequent words:\n", len(ranked))
	fmt.Fprintf(w, "%-6s %-20s %-10s\n", "Rank", "Word", "Frequency")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	for i, wc := range ranked {
		fmt.Fprintf(w, "%-6d %-20s %-10d\n", i+1, wc.Word, wc.Count)
	}
}
