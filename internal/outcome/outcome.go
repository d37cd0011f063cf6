package outcome

import (
	"strconv"
	"strings"
)

// Outcome is the process-visible result of one cycle.
type Outcome int

const (
	// Rebuilt means the adaptation service produced a sanitised artifact.
	Rebuilt Outcome = 0
	// Failed means the content was processed but must not pass; the service
	// still produced an artifact (typically a report) at the rebuilt location.
	Failed Outcome = 1
	// Error means the cycle could not complete, including timeouts.
	Error Outcome = 2
	// Unprocessed means the service left the content unmodified.
	Unprocessed Outcome = 3
)

// String returns the lowercase name used in logs and the cycle journal.
func (o Outcome) String() string {
	switch o {
	case Rebuilt:
		return "rebuilt"
	case Failed:
		return "failed"
	case Error:
		return "error"
	case Unprocessed:
		return "unprocessed"
	default:
		return "outcome_" + strconv.Itoa(int(o))
	}
}

// ExitCode returns the integer handed back to the calling process.
func (o Outcome) ExitCode() int {
	return int(o)
}

// ProducesArtifact reports whether an artifact is expected at the rebuilt
// location and should be promoted to the caller's output path.
func (o Outcome) ProducesArtifact() bool {
	return o == Rebuilt || o == Failed
}

// Derive maps the completion state of a cycle to the reported outcome. Every
// cycle-ending error collapses to Error regardless of its class; the
// distinction only survives in the logs. Without an error the service's
// discriminant is reported 1:1.
func Derive(result Outcome, err error) Outcome {
	if err != nil {
		return Error
	}
	return result
}

// ParseFileOutcome converts the adaptation service's file-outcome word into
// an Outcome. Integer values are accepted verbatim so newer service outcomes
// pass through; anything unrecognised maps to Error.
func ParseFileOutcome(value string) Outcome {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "replace", "rebuilt", "gw_rebuilt":
		return Rebuilt
	case "unmodified", "unprocessed", "gw_unprocessed":
		return Unprocessed
	case "failed", "gw_failed":
		return Failed
	case "error", "gw_error", "":
		return Error
	}
	if code, err := strconv.Atoi(normalized); err == nil && code >= 0 {
		return Outcome(code)
	}
	return Error
}
