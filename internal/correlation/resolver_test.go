package correlation

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	"cloudproxy/internal/logging"
)

var uuidShape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestResolveKeepsValidIdentifier(t *testing.T) {
	const raw = "6f1c2b0e-8a4d-4f7e-9b3c-2d1e0f9a8b7c"
	id := Resolve(raw, logging.NewNop())
	if id.String() != raw {
		t.Fatalf("expected id to be used verbatim, got %s", id)
	}
}

func TestResolveAcceptsBracedAndUppercaseForms(t *testing.T) {
	id := Resolve("{6F1C2B0E-8A4D-4F7E-9B3C-2D1E0F9A8B7C}", logging.NewNop())
	if id.String() != "6f1c2b0e-8a4d-4f7e-9b3c-2d1e0f9a8b7c" {
		t.Fatalf("unexpected id: %s", id)
	}
}

func TestResolveKeepsNilIdentifier(t *testing.T) {
	if id := Resolve("00000000-0000-0000-0000-000000000000", logging.NewNop()); id != uuid.Nil {
		t.Fatalf("expected the nil identifier to be kept, got %s", id)
	}
}

func TestResolveSubstitutesMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-guid", "6f1c2b0e-8a4d", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		id := Resolve(raw, logging.NewNop())
		if id == uuid.Nil {
			t.Fatalf("Resolve(%q) returned nil uuid", raw)
		}
		if !uuidShape.MatchString(id.String()) {
			t.Fatalf("Resolve(%q) = %q, not a well-formed identifier", raw, id)
		}
		if id.String() == raw {
			t.Fatalf("Resolve(%q) returned the input", raw)
		}
	}
}

func TestResolveGeneratesFreshIdentifiers(t *testing.T) {
	first := Resolve("not-a-guid", nil)
	second := Resolve("not-a-guid", nil)
	if first == second {
		t.Fatalf("expected distinct generated ids, got %s twice", first)
	}
}

func TestResolveLogsSubstitution(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	id := Resolve("not-a-guid", logger)

	out := buf.String()
	if !strings.Contains(out, "correlation_id_substituted") {
		t.Fatalf("expected substitution to be logged, got %q", out)
	}
	if !strings.Contains(out, id.String()) {
		t.Fatalf("expected generated id in log, got %q", out)
	}

	buf.Reset()
	Resolve("6f1c2b0e-8a4d-4f7e-9b3c-2d1e0f9a8b7c", logger)
	if buf.Len() != 0 {
		t.Fatalf("expected no log for valid id, got %q", buf.String())
	}
}
