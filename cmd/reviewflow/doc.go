// Reviewflow reviews GitHub-hosted repositories with multiple LLM
// providers, consolidating independent reviews into one actionable report.
//
// Usage:
//
//	reviewflow review "migrate sessions to redis" --repo owner/name
//	reviewflow agents --repo owner/name --scope 'src/**/*.go'
//	reviewflow serve --port 8080
//	reviewflow models list
//
// The review command runs the standard pipeline: prompt improvement, file
// ranking and loading, provider fan-out, consolidation. The agents command
// dispatches four specialist reviewers over a scoped file set instead.
package main
