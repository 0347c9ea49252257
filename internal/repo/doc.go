// Package repo is the read-only GitHub REST client behind both review
// pipelines: file content (base64-decoded), recursive trees, commit lists,
// and per-commit changed-file details. All failures surface as wrapped
// fetch errors; callers decide whether they are fatal.
package repo
