package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/config"
	"cloudproxy/internal/journal"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/outcome"
	"cloudproxy/internal/proxy"
	"cloudproxy/internal/services"
	"cloudproxy/internal/staging"
)

// runCycle executes one orchestration cycle and converts its outcome into the
// command's error result.
func runCycle(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.Request.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "", "logging", "", err)
	}
	if cfg.Paths.LogDir != "" {
		logging.PruneLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logging.DailyLogName(time.Now()))
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := proxy.Options{
		Timeout: cfg.ProcessingTimeout(),
		LockDir: cfg.Paths.LockDir,
		Logger:  logger,
	}
	if store := openJournal(runCtx, cfg, logger); store != nil {
		defer store.Close()
		opts.Recorder = store
	}

	orchestrator, err := proxy.New(
		adaptation.NewFactory(cfg),
		staging.NewStore(cfg.Paths.OriginalStore, cfg.Paths.RebuiltStore, logger),
		opts,
	)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "", "orchestrator", "", err)
	}

	report := orchestrator.Run(runCtx, cfg.Request)
	if report.Outcome == outcome.Rebuilt {
		return nil
	}
	return &cycleExit{outcome: report.Outcome}
}

// openJournal opens the cycle journal when enabled and prunes expired rows.
// A journal that cannot be opened is logged and skipped; it never blocks the
// cycle.
func openJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) *journal.Store {
	if !cfg.Journal.Enabled {
		return nil
	}
	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logging.WarnWithContext(logger, "cycle journal unavailable", "journal_open_failed",
			logging.String("path", cfg.Journal.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this cycle will not be recorded"),
			logging.String(logging.FieldErrorHint, "check journal.path permissions or set journal.enabled = false"),
		)
		return nil
	}
	if retention := cfg.JournalRetention(); retention > 0 {
		removed, err := store.Prune(ctx, retention)
		if err != nil {
			logging.WarnWithContext(logger, "journal prune failed", "journal_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "old journal rows remain"),
			)
		} else if removed > 0 {
			logger.Debug("journal pruned",
				logging.Int64("removed", removed),
				logging.String(logging.FieldEventType, "journal_pruned"),
			)
		}
	}
	return store
}
