// Package jobs defines the error taxonomy and context annotations shared by
// the sharder and vocabulary builder.
//
// Every failure surfaced by a run is wrapped with one of the sentinel markers
// so the command layer can pick an exit code and log a stable classification
// without parsing messages. Context helpers attach the job name and run
// identifier that the logging package stamps onto each record.
package jobs
