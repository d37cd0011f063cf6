// Package outcome defines the process-level result codes reported to the
// calling gateway and the rules for deriving one from a finished cycle.
//
// Outcome values are cast directly to the process exit status, so existing
// members must never be renumbered. Values outside the known set are passed
// through untouched.
package outcome
