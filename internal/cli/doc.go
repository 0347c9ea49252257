// Package cli wires together the Cobra command tree for the reviewflow
// binary.
//
// It defines the root command and all subcommands (review, agents, serve,
// models, version), binds flags, reads configuration, invokes the review
// engine, and returns deterministic exit codes.
package cli
