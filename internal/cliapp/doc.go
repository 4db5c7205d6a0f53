// Package cliapp holds the command plumbing shared by the sharder and
// vocab_builder binaries.
//
// A Context lazily loads configuration once per invocation, applies the
// persistent logging flags, builds the run logger and takes the advisory
// run lock for a primary output. Execute runs a cobra root under a
// signal-aware context and maps the returned error onto the process exit
// status, printing a usage line for invalid arguments. The config
// subcommands and the table and JSON output helpers live here too.
package cliapp
