package proxy

import (
	"context"
	"errors"
	"time"

	"cloudproxy/internal/journal"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/outcome"
	"cloudproxy/internal/services"
)

// finish is the single convergence point of every branch: it clears the
// staging files, releases the id lock, fixes the outcome and reports it.
func (o *Orchestrator) finish(c *cycle) {
	c.enter(StateCleaning)
	o.store.Clear(c.ctx, c.paths)
	if err := c.lock.Release(); err != nil {
		logging.WarnWithContext(c.logger, "failed to release id lock", "lock_release_failed",
			logging.String("lock_path", c.lock.Path()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale lock file left in lock directory"),
		)
	}

	report := c.report
	report.Outcome = outcome.Derive(report.Outcome, report.Err)
	report.FinishedAt = time.Now()
	c.enter(StateReported)

	o.logReport(c)
	o.record(c)
}

func (o *Orchestrator) logReport(c *cycle) {
	report := c.report
	elapsed := report.FinishedAt.Sub(report.StartedAt)
	if report.Err == nil {
		c.logger.Info("cycle complete",
			logging.String("outcome", report.Outcome.String()),
			logging.Int("exit_code", report.Outcome.ExitCode()),
			logging.Duration("elapsed", elapsed),
			logging.String(logging.FieldEventType, "cycle_complete"),
		)
		return
	}

	if errors.Is(report.Err, services.ErrTimeout) {
		logging.ErrorWithContext(c.logger, "processing exceeded timeout", services.EventType(report.Err),
			logging.Float64("timeout_seconds", o.opts.Timeout.Seconds()),
			logging.Duration("elapsed", elapsed),
			logging.Int("exit_code", report.Outcome.ExitCode()),
			logging.Error(report.Err),
			logging.String(logging.FieldErrorHint, "raise processing.timeout_seconds or check adaptation service load"),
		)
		return
	}

	logging.ErrorWithContext(c.logger, "cycle failed", services.EventType(report.Err),
		logging.String("failed_after", string(lastBefore(report.Trail, StateCleaning))),
		logging.Duration("elapsed", elapsed),
		logging.Int("exit_code", report.Outcome.ExitCode()),
		logging.Error(report.Err),
	)
}

func (o *Orchestrator) record(c *cycle) {
	if o.opts.Recorder == nil {
		return
	}
	report := c.report
	entry := &journal.Entry{
		CorrelationID: report.CorrelationID.String(),
		Outcome:       report.Outcome,
		FinalState:    string(lastBefore(report.Trail, StateCleaning)),
		InputPath:     c.req.InputPath,
		OutputPath:    c.req.OutputPath,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		Duration:      report.FinishedAt.Sub(report.StartedAt),
	}
	if report.Err != nil {
		entry.ErrorMessage = report.Err.Error()
	}
	if err := o.opts.Recorder.Record(context.WithoutCancel(c.ctx), entry); err != nil {
		logging.WarnWithContext(c.logger, "failed to record cycle in journal", "journal_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check journal.path permissions"),
			logging.String(logging.FieldImpact, "cycle missing from history"),
		)
	}
}

// lastBefore returns the state reached just before marker was entered.
func lastBefore(trail []State, marker State) State {
	for i := len(trail) - 1; i > 0; i-- {
		if trail[i] == marker {
			return trail[i-1]
		}
	}
	if len(trail) == 0 {
		return StateStart
	}
	return trail[len(trail)-1]
}
