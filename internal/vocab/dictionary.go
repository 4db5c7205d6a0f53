package vocab

import "slices"

// TermCount pairs a term with its corpus-wide occurrence count.
type TermCount struct {
	Term  string
	Count int
}

// Dictionary counts terms and remembers the order they were first seen.
type Dictionary struct {
	counts map[string]int
	order  []string
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{counts: make(map[string]int)}
}

// Add records one occurrence of term.
func (d *Dictionary) Add(term string) {
	if _, ok := d.counts[term]; !ok {
		d.order = append(d.order, term)
	}
	d.counts[term]++
}

// Count returns the occurrences recorded for term.
func (d *Dictionary) Count(term string) int {
	return d.counts[term]
}

// Len returns the number of distinct terms.
func (d *Dictionary) Len() int {
	return len(d.order)
}

// Ranked returns all terms by descending count. Equal counts keep insertion order.
func (d *Dictionary) Ranked() []TermCount {
	ranked := make([]TermCount, len(d.order))
	for i, term := range d.order {
		ranked[i] = TermCount{Term: term, Count: d.counts[term]}
	}
	slices.SortStableFunc(ranked, func(a, b TermCount) int {
		return b.Count - a.Count
	})
	return ranked
}
