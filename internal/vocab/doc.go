// Package vocab builds a capped term vocabulary from a corpus and emits a
// per-document term-count matrix aligned to it.
//
// Build makes two sequential passes over the corpus file. The first counts
// every term surviving the textutil filter, keeps the most frequent
// min(maxSize, 5000) terms, assigns ids by frequency rank (ties broken by
// first appearance), and writes them in alphabetical order as
// "{id} {term} {frequency}". The second pass emits one space-separated count
// row per document with at least one vocabulary hit, columns in the same
// alphabetical order.
package vocab
