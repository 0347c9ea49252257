// Package loader fetches repository file content under strict size
// budgets: a per-file cap, a total character budget, and a fixed
// concurrency bound. It is shared by the standard and agent review
// pipelines.
package loader
