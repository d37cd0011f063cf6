package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cloudproxy/internal/journal"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/outcome"
	"cloudproxy/internal/staging"
)

func reportOutput(t *testing.T, r report, asJSON bool) string {
	t.Helper()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := r.write(cmd, asJSON); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return out.String()
}

func TestStatsReportTotalsInFooter(t *testing.T) {
	r := statsReport(map[outcome.Outcome]int{outcome.Unprocessed: 1, outcome.Rebuilt: 4})
	out := reportOutput(t, r, false)
	requireContains(t, out, "Rebuilt", "Unprocessed", "Total", "5")
	if strings.Index(out, "Rebuilt") > strings.Index(out, "Unprocessed") {
		t.Fatalf("expected outcomes in exit-code order:\n%s", out)
	}
	if strings.Contains(out, "TOTAL") {
		t.Fatalf("expected footer to keep its case:\n%s", out)
	}
}

func TestHistoryReportTruncatesLongErrors(t *testing.T) {
	finished := time.Now()
	entry := journal.Entry{
		ID:            1,
		CorrelationID: uuid.NewString(),
		Outcome:       outcome.Error,
		FinalState:    "connecting",
		StartedAt:     finished.Add(-time.Second),
		FinishedAt:    finished,
		Duration:      time.Second,
		ErrorMessage:  strings.Repeat("x", 100),
	}
	r := historyReport([]journal.Entry{entry})

	out := reportOutput(t, r, false)
	requireContains(t, out, entry.CorrelationID, "Error", "connecting", strings.Repeat("x", 57)+"...")
	if strings.Contains(out, strings.Repeat("x", 58)) {
		t.Fatalf("expected error column to be truncated:\n%s", out)
	}

	var payload []historyEntryJSON
	if err := json.Unmarshal([]byte(reportOutput(t, r, true)), &payload); err != nil {
		t.Fatalf("decode history payload: %v", err)
	}
	if len(payload) != 1 || payload[0].Error != entry.ErrorMessage || payload[0].ExitCode != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestStagingReportPayload(t *testing.T) {
	base := t.TempDir()
	store := staging.NewStore(filepath.Join(base, "original"), filepath.Join(base, "rebuilt"), logging.NewNop())
	for _, dir := range store.Roots() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(filepath.Join(store.RebuiltRoot, id), []byte("abc"), 0o644); err != nil {
		t.Fatalf("write staging file: %v", err)
	}
	files, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var payload stagingListJSON
	if err := json.Unmarshal([]byte(reportOutput(t, stagingReport(store, files), true)), &payload); err != nil {
		t.Fatalf("decode staging payload: %v", err)
	}
	if len(payload.Roots) != 2 || len(payload.Files) != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	got := payload.Files[0]
	if got.Store != "rebuilt" || got.CorrelationID != id || got.SizeBytes != 3 {
		t.Fatalf("unexpected file entry %+v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Fatalf("unexpected %q", got)
	}
}
