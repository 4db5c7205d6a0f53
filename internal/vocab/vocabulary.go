package vocab

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"corpusprep/internal/jobs"
	"corpusprep/internal/textutil"
)

// MaxSize is the hard cap on vocabulary size regardless of the requested size.
const MaxSize = 5000

// Entry is one vocabulary term. ID is the 0-based frequency rank.
type Entry struct {
	ID        int    `json:"id"`
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

// Vocabulary is an immutable set of entries in alphabetical order by term.
// The alphabetical position of a term is its feature-matrix column.
type Vocabulary struct {
	entries []Entry
	columns map[string]int
}

// EffectiveSize returns the number of terms kept for a requested size.
func EffectiveSize(requested int) int {
	return min(requested, MaxSize)
}

// Select keeps the top EffectiveSize(maxSize) terms of d by rank and orders them
// alphabetically.
func Select(d *Dictionary, maxSize int) (*Vocabulary, error) {
	if maxSize <= 0 {
		return nil, jobs.Invalid(jobName, fmt.Sprintf("max vocabulary size must be positive, got %d", maxSize))
	}
	ranked := d.Ranked()
	if limit := EffectiveSize(maxSize); len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]Entry, len(ranked))
	for id, tc := range ranked {
		entries[id] = Entry{ID: id, Term: tc.Term, Frequency: tc.Count}
	}
	return newVocabulary(entries), nil
}

func newVocabulary(entries []Entry) *Vocabulary {
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Term, b.Term)
	})
	columns := make(map[string]int, len(entries))
	for i, e := range entries {
		columns[e.Term] = i
	}
	return &Vocabulary{entries: entries, columns: columns}
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Entries returns a copy of the entries in alphabetical order.
func (v *Vocabulary) Entries() []Entry {
	return slices.Clone(v.entries)
}

// Column returns the feature-matrix column of term.
func (v *Vocabulary) Column(term string) (int, bool) {
	col, ok := v.columns[term]
	return col, ok
}

// Row counts the vocabulary terms in a document. hits is the number of terms
// that matched; terms outside the vocabulary are ignored.
func (v *Vocabulary) Row(terms []string) (row []int, hits int) {
	row = make([]int, len(v.entries))
	for _, term := range terms {
		if col, ok := v.columns[term]; ok {
			row[col]++
			hits++
		}
	}
	return row, hits
}

// WriteTo writes one "{id} {term} {frequency}" line per entry.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for _, e := range v.entries {
		n, err := fmt.Fprintf(bw, "%d %s %d\n", e.ID, e.Term, e.Frequency)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// FormatRow renders counts space-separated.
func FormatRow(row []int) string {
	var b strings.Builder
	b.Grow(len(row) * 2)
	for i, c := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(c))
	}
	return b.String()
}

// ParseVocabulary reads a vocabulary file written by WriteTo.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	seen := make(map[string]struct{})
	for lineNo := 1; scanner.Scan(); lineNo++ {
		fields := strings.Split(scanner.Text(), " ")
		if len(fields) != 3 {
			return nil, fmt.Errorf("vocabulary line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("vocabulary line %d: id: %w", lineNo, err)
		}
		freq, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("vocabulary line %d: frequency: %w", lineNo, err)
		}
		term := fields[1]
		if !textutil.IsTerm(term) {
			return nil, fmt.Errorf("vocabulary line %d: %q is not a valid term", lineNo, term)
		}
		if _, dup := seen[term]; dup {
			return nil, fmt.Errorf("vocabulary line %d: duplicate term %q", lineNo, term)
		}
		seen[term] = struct{}{}
		entries = append(entries, Entry{ID: id, Term: term, Frequency: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return newVocabulary(entries), nil
}

// FromEntries builds a Vocabulary from stored entries, validating each term.
func FromEntries(entries []Entry) (*Vocabulary, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !textutil.IsTerm(e.Term) {
			return nil, fmt.Errorf("invalid vocabulary term %q", e.Term)
		}
		if _, dup := seen[e.Term]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q", e.Term)
		}
		seen[e.Term] = struct{}{}
	}
	return newVocabulary(slices.Clone(entries)), nil
}
