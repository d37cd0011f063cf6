package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrStaging       = errors.New("staging error")
	ErrConnectivity  = errors.New("connectivity error")
	ErrTimeout       = errors.New("timeout")
	ErrProcessing    = errors.New("processing error")
	ErrCleanup       = errors.New("cleanup error")
)

// Wrap builds an error message that includes cycle context while tagging it
// with the provided marker for later outcome classification. The marker should
// be one of the exported sentinel errors above. Blank context is omitted.
func Wrap(marker error, state, operation, message string, err error) error {
	detail := buildDetail(state, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		if detail == "" {
			return fmt.Errorf("%w: %w", marker, err)
		}
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	if detail == "" {
		detail = "cycle failure"
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the marker carried by err, or nil when err is untagged.
func Kind(err error) error {
	for _, marker := range []error{ErrConfiguration, ErrStaging, ErrConnectivity, ErrTimeout, ErrProcessing, ErrCleanup} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

// EventType returns the structured log event type for a tagged error.
func EventType(err error) string {
	switch Kind(err) {
	case ErrConfiguration:
		return "configuration_invalid"
	case ErrStaging:
		return "staging_failed"
	case ErrConnectivity:
		return "adaptation_connect_failed"
	case ErrTimeout:
		return "processing_timeout"
	case ErrCleanup:
		return "cleanup_failed"
	default:
		return "processing_failed"
	}
}

func buildDetail(state, operation, message string) string {
	parts := make([]string, 0, 3)
	if state = strings.TrimSpace(state); state != "" {
		parts = append(parts, state)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	return strings.Join(parts, ": ")
}
