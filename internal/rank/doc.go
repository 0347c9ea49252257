// Package rank scores repository paths against search keywords. It is a
// pure heuristic, not an index: best-effort relevance, deterministic for
// identical inputs.
package rank
