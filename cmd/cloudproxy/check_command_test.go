package main

import (
	"testing"

	"cloudproxy/internal/testsupport"
)

func TestCheckPassesWithReachableService(t *testing.T) {
	srv := newAdaptationService(t, "replace", nil)
	env := setupCLITestEnv(t, testsupport.WithAdaptationURL(srv.URL))

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Original store:", "Rebuilt store:", "Adaptation service (http):", "[OK]")
}

func TestCheckFailsWhenServiceUnreachable(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithAdaptationURL("http://127.0.0.1:1"))

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, out, "Adaptation service (http):", "[ERROR]")
}
