// Package staging manages the filesystem locations used to exchange artifacts
// with the adaptation service.
//
// Each cycle owns two files named exactly by its correlation id: one under the
// original store (the input handed to the service) and one under the rebuilt
// store (the artifact the service writes back). Store copies the input in,
// promotes the rebuilt artifact to the caller's output path, and clears both
// files when the cycle ends. Clear never fails; removal problems are logged as
// warnings.
//
// Lock provides per-id exclusivity across processes, and CleanStale sweeps
// files abandoned by processes that died mid-cycle.
package staging
