// Package textutil implements the corpus tokenization rule shared by both
// vocabulary passes.
//
// A line containing both '<' and '>' is treated as markup and skipped whole.
// Other lines are split on single spaces; each token is lower-cased and kept
// only when it is purely ASCII-alphabetic and not one of the fixed English
// stop words.
package textutil
