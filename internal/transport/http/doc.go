// Package http serves the latest spread analysis result over HTTP.
//
// The package exposes a JSON API under /api (full result, diagnostics,
// probabilities, levels, statistics), a Prometheus scrape endpoint at
// /metrics, and a minimal HTML dashboard at /. Results are held in a
// ResultStore; the bundled MemoryStore keeps the most recent run in memory.
package http
