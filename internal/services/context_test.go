package services_test

import (
	"context"
	"testing"

	"cloudproxy/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithCorrelationID(ctx, "7d9c3f0e-3a57-4c4e-9d0f-5b8c1f4a2e61")
	ctx = services.WithState(ctx, "staged")

	if id, ok := services.CorrelationIDFromContext(ctx); !ok || id != "7d9c3f0e-3a57-4c4e-9d0f-5b8c1f4a2e61" {
		t.Fatalf("unexpected correlation id: %v %v", id, ok)
	}
	if state, ok := services.StateFromContext(ctx); !ok || state != "staged" {
		t.Fatalf("unexpected state: %v %v", state, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithCorrelationID(ctx, "")
	ctx = services.WithState(ctx, "")
	if _, ok := services.CorrelationIDFromContext(ctx); ok {
		t.Fatal("expected no correlation id value")
	}
	if _, ok := services.StateFromContext(ctx); ok {
		t.Fatal("expected no state value")
	}
}
