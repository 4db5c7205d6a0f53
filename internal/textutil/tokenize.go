package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ASCIISpace is the whitespace trimmed from line ends. Unicode spaces such as
// U+00A0 are kept and make the surrounding token non-alphabetic.
const ASCIISpace = " \t\r\n\v\f"

// stopWords is the fixed set of English function words excluded from counting.
var stopWords = map[string]struct{}{
	"a": {}, "the": {}, "of": {}, "to": {}, "an": {}, "but": {}, "or": {},
	"its": {}, "about": {}, "would": {}, "and": {}, "in": {}, "that": {},
	"is": {}, "are": {}, "be": {}, "been": {}, "will": {}, "this": {},
	"was": {}, "for": {}, "on": {}, "as": {}, "from": {}, "at": {}, "by": {},
	"with": {}, "have": {}, "which": {}, "has": {}, "had": {}, "were": {},
	"it": {}, "not": {},
}

// IsStopWord reports whether term is in the fixed stop-word set.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}

// SkipLine reports whether the line looks like markup and must be ignored.
func SkipLine(line string) bool {
	return strings.IndexByte(line, '<') >= 0 && strings.IndexByte(line, '>') >= 0
}

// Tokenizer turns corpus lines into terms. It is not safe for concurrent use.
type Tokenizer struct {
	lower cases.Caser
}

// NewTokenizer returns a Tokenizer using language-neutral lower-casing.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{lower: cases.Lower(language.Und)}
}

// Terms returns the surviving terms of line in encounter order. Callers check
// SkipLine first; Terms does not apply the markup rule.
func (t *Tokenizer) Terms(line string) []string {
	line = strings.TrimRight(line, ASCIISpace)
	if line == "" {
		return nil
	}
	raw := strings.Split(line, " ")
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if term, ok := t.Normalize(token); ok {
			terms = append(terms, term)
		}
	}
	return terms
}

// Normalize lower-cases a single token and reports whether it is a term.
func (t *Tokenizer) Normalize(token string) (string, bool) {
	if !isASCIIAlpha(token) {
		return "", false
	}
	term := t.lower.String(token)
	if IsStopWord(term) {
		return "", false
	}
	return term, IsTerm(term)
}

// IsTerm reports whether s could have been produced by Normalize: non-empty,
// lower-case ASCII letters only, not a stop word.
func IsTerm(s string) bool {
	if s == "" || IsStopWord(s) {
		return false
	}
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, ". ") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func isASCIIAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
