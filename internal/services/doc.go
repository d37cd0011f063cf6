// Package services defines shared utilities consumed by the request
// orchestrator and the adaptation service integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and orchestration
//     states so log lines can be tied back to a single cycle.
//   - Structured error markers plus the Wrap helper that tag failures with
//     the taxonomy the outcome mapper understands (staging, connectivity,
//     timeout, processing, configuration).
//
// Use these helpers when adding new cycle steps so failure classification and
// observability stay uniform across the proxy.
package services
