// Package proxy runs one bounded adaptation cycle.
//
// Orchestrator.Run resolves the correlation id, stages the input artifact,
// connects a fresh adaptation client, issues a single request under a
// per-cycle deadline and, when the service produced an artifact, promotes it
// to the caller's output path. Every branch, including staging failures,
// connect failures, timeouts and faults, converges on one cleanup pass and a
// Report carrying one of the fixed outcome codes.
//
// The deadline is derived from the configured timeout at the start of each
// Run, so a single Orchestrator can serve many cycles. Cancellation is
// cooperative: the client is expected to return once its context is done.
// A client that ignores cancellation is abandoned after a short grace period
// and closed, which unblocks any well-behaved transport.
package proxy
