package mapreduce

import "sync"

// Aggregator accumulates word counts from pages processed by concurrent
// workers. All methods are safe for concurrent use; counts only ever grow.
type Aggregator struct {
	mu     sync.Mutex
	counts map[string]int
	total  int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(map[string]int)}
}

// Add counts one occurrence per token.
func (a *Aggregator) Add(tokens []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, tok := range tokens {
		a.counts[tok]++
	}
	a.total += len(tokens)
}

// Merge folds a per-page frequency map into the running totals.
func (a *Aggregator) Merge(counts map[string]int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for word, count := range counts {
		a.counts[word] += count
		a.total += count
	}
}

// Snapshot returns a copy of the current frequency table.
func (a *Aggregator) Snapshot() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]int, len(a.counts))
	for word, count := range a.counts {
		out[word] = count
	}
	return out
}

// UniqueWords returns the number of distinct words seen so far.
func (a *Aggregator) UniqueWords() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.counts)
}

// TotalOccurrences returns the sum of all word counts.
func (a *Aggregator) TotalOccurrences() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}
