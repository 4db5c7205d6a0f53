// Package logging assembles structured slog loggers and formatting helpers used
// by the corpusprep commands.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// stamps every record with the invocation's run identifier, and exposes
// context-aware helpers so job code can tag log lines with the job name. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Logs go to stderr by default so stdout stays free for run summaries.
package logging
