// Command sharder splits a line-oriented text file into N shard files.
//
// Usage:
//
//	sharder [flags] <inputPath> <shardCount>
//
// Every line of inputPath is trimmed of surrounding whitespace and appended
// to one of inputPath_1 .. inputPath_N, chosen uniformly at random. Pass
// --seed (or set sharder.seed) to make the assignment reproducible; the seed
// used is always reported so a random run can be replayed.
package main
