package services_test

import (
	"errors"
	"strings"
	"testing"

	"cloudproxy/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStaging, "resolving_id", "stage", "copy input", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStaging) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"resolving_id", "stage", "copy input"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToProcessingMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected processing marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "cycle failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestWrapOmitsBlankContext(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "", "", "", errors.New("paths.original_store must be set"))
	if got := err.Error(); got != "configuration error: paths.original_store must be set" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKindAndEventType(t *testing.T) {
	cases := []struct {
		marker error
		event  string
	}{
		{services.ErrConfiguration, "configuration_invalid"},
		{services.ErrStaging, "staging_failed"},
		{services.ErrConnectivity, "adaptation_connect_failed"},
		{services.ErrTimeout, "processing_timeout"},
		{services.ErrProcessing, "processing_failed"},
		{services.ErrCleanup, "cleanup_failed"},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "requesting", "request", "", errors.New("io"))
		if kind := services.Kind(err); kind != tc.marker {
			t.Fatalf("Kind(%v) = %v, want %v", err, kind, tc.marker)
		}
		if event := services.EventType(err); event != tc.event {
			t.Fatalf("EventType(%v) = %q, want %q", err, event, tc.event)
		}
	}
	if kind := services.Kind(errors.New("plain")); kind != nil {
		t.Fatalf("expected nil kind for untagged error, got %v", kind)
	}
	if event := services.EventType(errors.New("plain")); event != "processing_failed" {
		t.Fatalf("unexpected event for untagged error: %q", event)
	}
}
