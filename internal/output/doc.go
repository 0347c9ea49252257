// Package output formats run results for display or machine consumption.
//
// Three formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON result
//   - markdown — PR-comment-friendly with collapsible per-source sections
//
// Use [GetWriter] to obtain a [Writer] for a given format string.
package output
