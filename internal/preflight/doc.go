// Package preflight provides readiness checks for the filesystem paths and
// the adaptation service that cloudproxy depends on.
//
// The CLI "cloudproxy check" command runs RunAll and prints one line per
// result. Individual checks are exported so callers can probe a single
// dependency. The journal check is skipped when the journal is disabled.
package preflight
