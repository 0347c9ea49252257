// Package web exposes the review engine over HTTP.
//
// POST /api/review streams standard pipeline progress as Server-Sent
// Events; POST /api/agents runs an agent review and returns one JSON
// document; GET /api/models lists selectable models per provider. Both
// POST endpoints sit behind a per-client sliding-window rate limiter and
// reject over-limit requests with 429 and a Retry-After header.
package web
