package proxy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/services"
)

type requestResult struct {
	result adaptation.Result
	err    error
}

// exchange runs Connect, Request and Interpreting with a client that is
// closed exactly once before exchange returns.
func (o *Orchestrator) exchange(c *cycle) {
	client, err := o.factory()
	if err != nil {
		c.fail("", services.Wrap(services.ErrConnectivity, string(StateStaged), "connect", "build adaptation client", err))
		return
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logging.WarnWithContext(c.logger, "failed to close adaptation client", "adaptation_close_failed",
				logging.Error(closeErr),
				logging.String(logging.FieldImpact, "connection resources may linger until exit"),
			)
		}
	}()

	if err := client.Connect(c.deadline); err != nil {
		if o.timedOut(c) {
			c.fail(StateTimedOut, services.Wrap(services.ErrTimeout, string(StateStaged), "connect",
				fmt.Sprintf("connecting exceeded %s", o.opts.Timeout), err))
			return
		}
		c.fail("", services.Wrap(services.ErrConnectivity, string(StateStaged), "connect", "connect to adaptation service", err))
		return
	}
	c.enter(StateConnected)

	c.enter(StateRequesting)
	c.logger.Info("sending adaptation request",
		logging.String("original_path", c.paths.Original),
		logging.String("rebuilt_path", c.paths.Rebuilt),
		logging.Duration("timeout", o.opts.Timeout),
	)
	res, err := o.request(c.deadline, client, c)
	if err != nil {
		if o.timedOut(c) {
			c.fail(StateTimedOut, services.Wrap(services.ErrTimeout, string(StateRequesting), "request",
				fmt.Sprintf("adaptation request exceeded %s", o.opts.Timeout), err))
			return
		}
		c.fail(StateFaulted, services.Wrap(services.ErrProcessing, string(StateRequesting), "request", "adaptation request failed", err))
		return
	}

	c.enter(StateInterpreting)
	c.report.Outcome = res.Outcome
	c.report.Detail = res.Detail
	c.logger.Info("adaptation outcome received",
		logging.String("outcome", res.Outcome.String()),
		logging.String("detail", res.Detail),
	)
	if res.Outcome.ProducesArtifact() {
		if err := o.store.Promote(c.ctx, c.paths.Rebuilt, c.req.OutputPath); err != nil {
			c.fail(StateFaulted, err)
			return
		}
	}
	if c.req.ReturnConfigPath != "" {
		c.logger.Debug("return config path specified; no action defined",
			logging.String("return_config_path", c.req.ReturnConfigPath),
		)
	}
}

// request issues the adaptation call and waits for it, or for the deadline
// plus the cancel grace when the client does not unwind on its own.
func (o *Orchestrator) request(ctx context.Context, client adaptation.Client, c *cycle) (adaptation.Result, error) {
	done := make(chan requestResult, 1)
	go func() {
		res, err := client.Request(ctx, c.report.CorrelationID, c.paths.Original, c.paths.Rebuilt)
		done <- requestResult{result: res, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
	}

	grace := time.NewTimer(o.opts.CancelGrace)
	defer grace.Stop()
	select {
	case out := <-done:
		if out.err == nil {
			// The answer raced the deadline; the cycle is already over.
			return adaptation.Result{}, ctx.Err()
		}
		return out.result, out.err
	case <-grace.C:
		logging.WarnWithContext(c.logger, "adaptation client ignored cancellation", "adaptation_cancel_ignored",
			logging.Duration("grace", o.opts.CancelGrace),
			logging.String(logging.FieldImpact, "client abandoned; closing it to release the call"),
		)
		return adaptation.Result{}, ctx.Err()
	}
}

// timedOut reports whether the cycle deadline, rather than the caller,
// ended the current step.
func (o *Orchestrator) timedOut(c *cycle) bool {
	if c.ctx.Err() != nil {
		return false
	}
	return errors.Is(c.deadline.Err(), context.DeadlineExceeded)
}
