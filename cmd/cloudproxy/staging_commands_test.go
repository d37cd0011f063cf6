package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func writeStaleFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("left behind"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	mod := time.Now().Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
	return path
}

func TestStagingListAndSweep(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "No staging files found")

	id := uuid.NewString()
	stale := writeStaleFile(t, env.cfg.Paths.OriginalStore, id, 3*time.Hour)
	fresh := writeStaleFile(t, env.cfg.Paths.RebuiltStore, uuid.NewString(), time.Minute)
	foreign := writeStaleFile(t, env.cfg.Paths.OriginalStore, "notes.txt", 3*time.Hour)

	out, _, err = runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, id, "original", "rebuilt", "Total", "2 files")

	out, _, err = runCLI(t, []string{"staging", "sweep", "--older-than", "1h"}, env.configPath)
	if err != nil {
		t.Fatalf("staging sweep: %v", err)
	}
	requireContains(t, out, "Removed 1 stale files")

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale file removed, stat err=%v", err)
	}
	for _, path := range []string{fresh, foreign} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", path, err)
		}
	}

	out, _, err = runCLI(t, []string{"staging", "sweep", "--older-than", "1h"}, env.configPath)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	requireContains(t, out, "No stale staging files to remove")
}

func TestStagingSweepRejectsNonPositiveAge(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"staging", "sweep", "--older-than", "0s"}, env.configPath); err == nil {
		t.Fatal("expected error for zero age")
	}
}
