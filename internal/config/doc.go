// Package config loads and merges reviewflow configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. Environment variables (REVIEWFLOW_HOST, REVIEWFLOW_PORT,
//     REVIEWFLOW_PROVIDERS, etc.)
//  2. YAML config file (reviewflow.yaml by default)
//  3. Built-in defaults
//
// Per-run options such as the provider list can additionally be overridden
// by CLI flags or request bodies; those overrides live with their
// commands, not here.
package config
