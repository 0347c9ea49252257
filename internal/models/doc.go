// Package models holds the fixed per-provider model allowlists and the
// selection-resolution rules used before every outbound provider call.
package models
