package mapreduce

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/wikifreq/models"
)

func TestRank(t *testing.T) {
	counts := map[string]int{"cat": 2, "sat": 1, "mat": 1, "ran": 1}

	tests := []struct {
		name string
		n    int
		want []models.WordCount
	}{
		{
			name: "top two breaks tie alphabetically",
			n:    2,
			want: []models.WordCount{{Word: "cat", Count: 2}, {Word: "mat", Count: 1}},
		},
		{
			name: "n past the end returns full table",
			n:    10,
			want: []models.WordCount{
				{Word: "cat", Count: 2},
				{Word: "mat", Count: 1},
				{Word: "ran", Count: 1},
				{Word: "sat", Count: 1},
			},
		},
		{
			name: "zero n returns full table",
			n:    0,
			want: []models.WordCount{
				{Word: "cat", Count: 2},
				{Word: "mat", Count: 1},
				{Word: "ran", Count: 1},
				{Word: "sat", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(counts, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rank(counts, %d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestRank_Idempotent(t *testing.T) {
	counts := map[string]int{"delta": 4, "alpha": 4, "bravo": 7, "charlie": 1}

	first := Rank(counts, 3)
	for i := 0; i < 10; i++ {
		if got := Rank(counts, 3); !reflect.DeepEqual(got, first) {
			t.Fatalf("Rank() run %d = %v, want %v", i, got, first)
		}
	}
}

func TestRank_OrderIsDescending(t *testing.T) {
	counts := map[string]int{"one": 1, "five": 5, "three": 3, "four": 4, "two": 2}

	ranked := Rank(counts, 0)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Count > ranked[i-1].Count {
			t.Errorf("Rank() not descending at %d: %v before %v", i, ranked[i-1], ranked[i])
		}
	}
}

func TestRank_EmptyTable(t *testing.T) {
	if got := Rank(map[string]int{}, 5); len(got) != 0 {
		t.Errorf("Rank(empty) = %v, want empty", got)
	}
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{"learning": 1153, "model": 872, "data": 872}

	got := TopKeywords(counts, 2)
	want := []string{"learning:1153", "data:872"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords() = %v, want %v", got, want)
	}
}

func TestPrintTable(t *testing.T) {
	ranked := []models.WordCount{{Word: "cat", Count: 2}, {Word: "mat", Count: 1}}
	stats := models.RunStats{TotalUniqueWords: 4, TotalOccurrences: 5}

	var buf bytes.Buffer
	PrintTable(&buf, ranked, stats)

	out := buf.String()
	for _, want := range []string{
		"WORD FREQUENCY ANALYSIS RESULTS",
		"Total unique words: 4",
		"Total word occurrences: 5",
		"Top 2 most frequent words:",
		"Rank",
		"cat",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintTable() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, nil, models.RunStats{})

	if got := buf.String(); !strings.Contains(got, "No words to analyze.") {
		t.Errorf("PrintTable(empty) = %q, want no-words message", got)
	}
}
