// Package agents implements specialist review: role-focused reviewers
// (bugs, security, performance, refactoring, individually enablable)
// dispatched concurrently over a scoped file set, followed by a synthesis
// pass and an optional confidence assessment.
//
// Agent mode is strict where the standard pipeline is lenient: an
// unresolvable scope, an empty file set, or any specialist failure aborts
// the run.
package agents
