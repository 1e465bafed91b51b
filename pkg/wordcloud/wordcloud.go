// Package wordcloud shapes a frequency table into renderable word cloud data.
package wordcloud

import (
	"github.com/dtnitsch/wikifreq/pkg/mapreduce"
	"github.com/dtnitsch/wikifreq/pkg/palette"
)

// MaxWords caps how many words a cloud includes.
const MaxWords = 100

// Word is a single renderable cloud entry.
type Word struct {
	Text      string `json:"text"`
	Size      int    `json:"size"`
	Frequency int    `json:"frequency"`
	Color     string `json:"color"`
}

// Cloud is the rendering payload for one category.
type Cloud struct {
	Category       string `json:"category"`
	Words          []Word `json:"words"`
	TotalWords     int    `json:"total_words"`
	DisplayedWords int    `json:"displayed_words"`
}

// Build ranks the frequency table, keeps the top MaxWords entries, scales
// their sizes to the 10..100 range relative to the kept counts, and cycles
// colors from the named palette.
func Build(category string, frequencies map[string]int, paletteName string) Cloud {
	colors := palette.Colors(paletteName)
	ranked := mapreduce.Rank(frequencies, MaxWords)

	words := make([]Word, 0, len(ranked))
	if len(ranked) > 0 {
		maxFreq := ranked[0].Count
		minFreq := ranked[len(ranked)-1].Count
		freqRange := maxFreq - minFreq
		if freqRange == 0 {
			freqRange = 1
		}

		for i, wc := range ranked {
			words = append(words, Word{
				Text:      wc.Word,
				Size:      10 + (90*(wc.Count-minFreq))/freqRange,
				Frequency: wc.Count,
				Color:     colors[i%len(colors)],
			})
		}
	}

	return Cloud{
		Category:       category,
		Words:          words,
		TotalWords:     len(frequencies),
		DisplayedWords: len(words),
	}
}
