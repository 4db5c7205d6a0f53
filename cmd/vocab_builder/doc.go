// Command vocab_builder builds a frequency-ranked vocabulary and a
// document-term count matrix from a plain-text corpus.
//
// Usage:
//
//	vocab_builder [flags] <corpusPath> <maxVocabSize>
//
// The vocabulary (at most min(maxVocabSize, 5000) terms) is written to
// ./vocab.txt as "<id> <term> <frequency>" lines in alphabetical order, and
// one space-separated count row per document line with at least one
// vocabulary hit is written to ./train_topic.csv. Lines that look like
// markup (containing both '<' and '>') are ignored. With --sqlite the
// vocabulary is also recorded in a SQLite database under the run id.
package main
