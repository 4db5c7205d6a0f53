// Package vocabstore exports built vocabularies to a SQLite database.
//
// Each vocab_builder run that names a database records one row in runs and
// one row per term in vocabulary, keyed by the run identifier that also
// appears in the run's logs. The schema is embedded and versioned; a
// database created by a different schema version is rejected rather than
// migrated.
package vocabstore
