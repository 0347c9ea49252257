// Package scope parses the free-text scope argument of an agent-mode
// review (a file path, a glob, or a commit count) and resolves it to a
// concrete list of repository paths.
package scope
