package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"cloudproxy/internal/outcome"
	"cloudproxy/internal/testsupport"
)

func TestHistoryListsRecordedCycles(t *testing.T) {
	srv := newAdaptationService(t, "failed", []byte("report"))
	env := setupCLITestEnv(t, testsupport.WithAdaptationURL(srv.URL))
	input := writeInput(t, env)
	id := uuid.NewString()

	if _, _, err := runCLI(t, []string{"-f", id, "-i", input, "-o", filepath.Join(env.baseDir, "out")}, env.configPath); err == nil {
		t.Fatal("expected failed outcome to surface as exit error")
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, id, "Failed", "interpreting")

	out, _, err = runCLI(t, []string{"history", "--json", "--id", id}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var entries []historyEntryJSON
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history json: %v\n%s", err, out)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Outcome != "failed" || entries[0].ExitCode != 1 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestHistoryStats(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenJournal(t, env.cfg)
	for _, o := range []outcome.Outcome{outcome.Rebuilt, outcome.Rebuilt, outcome.Unprocessed} {
		testsupport.RecordCycle(t, store, uuid.NewString(), o)
	}

	out, _, err := runCLI(t, []string{"history", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("history stats: %v", err)
	}
	requireContains(t, out, "Rebuilt", "Unprocessed", "Total")

	out, _, err = runCLI(t, []string{"history", "stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history stats --json: %v", err)
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if counts["rebuilt"] != 2 || counts["unprocessed"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestHistoryRequiresJournal(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithJournalDisabled())
	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err == nil {
		t.Fatal("expected error when journal is disabled")
	}
}

func TestOutcomeLabel(t *testing.T) {
	if got := outcomeLabel(outcome.Unprocessed); got != "Unprocessed" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := outcomeLabel(outcome.Outcome(9)); got != "Outcome 9" {
		t.Fatalf("unexpected label %q", got)
	}
}
