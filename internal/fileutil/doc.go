// Package fileutil holds the line-oriented file plumbing used by the jobs:
// unbounded line reading, buffered line writers, output directory probes, and
// the advisory run lock that keeps two invocations off the same outputs.
package fileutil
