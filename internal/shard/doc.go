// Package shard randomly partitions the lines of a file into N shard files.
//
// Each line is assigned independently by a uniform draw over N equal-width
// intervals of [0,1) and written, whitespace-trimmed, to "{input}_{i}" for
// i in 1..N. Runs are unseeded by default; the seed actually used is returned
// so a run can be replayed exactly.
package shard
