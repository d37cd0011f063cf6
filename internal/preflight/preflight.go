package preflight

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config. The
// checks run concurrently; results keep a fixed order.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	checks := []func(context.Context) Result{
		func(context.Context) Result { return CheckDirectoryAccess("Original store", cfg.Paths.OriginalStore) },
		func(context.Context) Result { return CheckDirectoryAccess("Rebuilt store", cfg.Paths.RebuiltStore) },
		func(context.Context) Result { return CheckDirectoryAccess("Lock directory", cfg.Paths.LockDir) },
	}
	if cfg.Paths.LogDir != "" {
		checks = append(checks, func(context.Context) Result {
			return CheckDirectoryAccess("Log directory", cfg.Paths.LogDir)
		})
	}
	checks = append(checks, func(ctx context.Context) Result {
		name := fmt.Sprintf("Adaptation service (%s)", cfg.Adaptation.Transport)
		client, err := adaptation.New(cfg)
		if err != nil {
			return Result{Name: name, Detail: err.Error()}
		}
		return CheckAdaptation(ctx, name, client)
	})
	if cfg.Journal.Enabled {
		checks = append(checks, func(ctx context.Context) Result {
			return CheckJournal(ctx, cfg.Journal.Path)
		})
	}

	results := make([]Result, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
