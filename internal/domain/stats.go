package domain

import (
	"cmp"
	"slices"
	"strings"
)

// StatsRecord is the persisted usage counter keyed by word text.
// Keys are compared by exact string match, so "Banco" and "banco" count as
// two distinct words.
type StatsRecord struct {
	TotalGenerated int            `json:"totalGenerated"`
	UniqueCount    int            `json:"uniqueCount"`
	WordFrequency  map[string]int `json:"wordFrequency"`
}

// NewStatsRecord returns the zero record with an allocated frequency map.
func NewStatsRecord() StatsRecord {
	return StatsRecord{WordFrequency: map[string]int{}}
}

// Clone returns a deep copy.
func (s StatsRecord) Clone() StatsRecord {
	freq := make(map[string]int, len(s.WordFrequency))
	for k, v := range s.WordFrequency {
		freq[k] = v
	}
	return StatsRecord{
		TotalGenerated: s.TotalGenerated,
		UniqueCount:    s.UniqueCount,
		WordFrequency:  freq,
	}
}

// With returns a copy of s with one more occurrence of word.
func (s StatsRecord) With(word string) StatsRecord {
	next := s.Clone()
	next.WordFrequency[word]++
	return next.Reconciled()
}

// Reconciled returns a copy whose derived counts are recomputed from
// WordFrequency. Non-positive counts are dropped.
func (s StatsRecord) Reconciled() StatsRecord {
	out := StatsRecord{WordFrequency: make(map[string]int, len(s.WordFrequency))}
	for word, n := range s.WordFrequency {
		if n <= 0 {
			continue
		}
		out.WordFrequency[word] = n
		out.TotalGenerated += n
	}
	out.UniqueCount = len(out.WordFrequency)
	return out
}

// Consistent reports whether the derived counts match WordFrequency.
func (s StatsRecord) Consistent() bool {
	r := s.Reconciled()
	return r.TotalGenerated == s.TotalGenerated &&
		r.UniqueCount == s.UniqueCount &&
		len(r.WordFrequency) == len(s.WordFrequency)
}

// Top returns the most frequent word. Ties go to the lexicographically
// smallest word. ok is false for an empty record.
func (s StatsRecord) Top() (word string, count int, ok bool) {
	for w, n := range s.WordFrequency {
		if n > count || (n == count && w < word) {
			word, count, ok = w, n, true
		}
	}
	return word, count, ok
}

// WordCount is one entry of a ranked frequency list.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Ranked returns up to n words by descending count, ties broken like Top.
// n <= 0 returns every word.
func (s StatsRecord) Ranked(n int) []WordCount {
	out := make([]WordCount, 0, len(s.WordFrequency))
	for w, c := range s.WordFrequency {
		out = append(out, WordCount{Word: w, Count: c})
	}
	slices.SortFunc(out, func(a, b WordCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return strings.Compare(a.Word, b.Word)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
