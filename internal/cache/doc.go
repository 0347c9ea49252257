// Package cache provides an in-memory TTL cache used to avoid re-fetching
// large, slow-changing upstream responses (recursive repository trees)
// within a short window.
package cache
