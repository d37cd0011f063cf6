package testsupport

import (
	"context"
	"testing"

	"cloudproxy/internal/config"
	"cloudproxy/internal/journal"
	"cloudproxy/internal/outcome"
)

// MustOpenJournal opens the journal configured in cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordCycle inserts a finished cycle for tests.
func RecordCycle(t testing.TB, store *journal.Store, correlationID string, result outcome.Outcome) *journal.Entry {
	t.Helper()

	entry := &journal.Entry{
		CorrelationID: correlationID,
		Outcome:       result,
		FinalState:    "interpreting",
	}
	if err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
