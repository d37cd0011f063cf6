package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/config"
	"cloudproxy/internal/correlation"
	"cloudproxy/internal/journal"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/outcome"
	"cloudproxy/internal/services"
	"cloudproxy/internal/staging"
)

// DefaultCancelGrace bounds how long Run waits for a client to unwind after
// the deadline fires.
const DefaultCancelGrace = 5 * time.Second

// Recorder persists finished cycles.
type Recorder interface {
	Record(ctx context.Context, entry *journal.Entry) error
}

// Options tune an Orchestrator.
type Options struct {
	// Timeout bounds the adaptation request of each cycle.
	Timeout time.Duration
	// CancelGrace bounds the wait for a client to return after cancellation.
	// Zero selects DefaultCancelGrace.
	CancelGrace time.Duration
	// LockDir holds per-id lock files. Empty disables locking.
	LockDir string
	// Recorder receives one entry per cycle. Nil disables recording.
	Recorder Recorder
	Logger   *slog.Logger
}

// Report describes a finished cycle.
type Report struct {
	CorrelationID uuid.UUID
	Outcome       outcome.Outcome
	Detail        string
	Err           error
	Trail         []State
	StartedAt     time.Time
	FinishedAt    time.Time
}

// FinalState returns the last state reached.
func (r Report) FinalState() State {
	if len(r.Trail) == 0 {
		return StateStart
	}
	return r.Trail[len(r.Trail)-1]
}

// Visited reports whether the cycle passed through state.
func (r Report) Visited(state State) bool {
	for _, s := range r.Trail {
		if s == state {
			return true
		}
	}
	return false
}

// Orchestrator runs adaptation cycles against a staging store.
type Orchestrator struct {
	factory adaptation.Factory
	store   *staging.Store
	opts    Options
	logger  *slog.Logger
}

// New constructs an Orchestrator. factory is invoked once per cycle.
func New(factory adaptation.Factory, store *staging.Store, opts Options) (*Orchestrator, error) {
	if factory == nil {
		return nil, errors.New("orchestrator requires client factory")
	}
	if store == nil {
		return nil, errors.New("orchestrator requires staging store")
	}
	if opts.Timeout <= 0 {
		return nil, errors.New("orchestrator requires positive timeout")
	}
	if opts.CancelGrace <= 0 {
		opts.CancelGrace = DefaultCancelGrace
	}
	return &Orchestrator{
		factory: factory,
		store:   store,
		opts:    opts,
		logger:  logging.NewComponentLogger(opts.Logger, "orchestrator"),
	}, nil
}

// cycle carries the mutable state of one Run. deadline bounds staging and the
// adaptation exchange; ctx outlives it so promotion and cleanup are not cut
// short.
type cycle struct {
	ctx      context.Context
	deadline context.Context
	req      config.Request
	report   *Report
	paths    staging.Paths
	lock     *staging.IDLock
	logger   *slog.Logger
}

func (c *cycle) enter(state State) {
	c.report.Trail = append(c.report.Trail, state)
	c.ctx = services.WithState(c.ctx, string(state))
	c.logger.Debug("cycle state", logging.String(logging.FieldState, string(state)))
}

// fail records err as the cycle-ending error and moves to state.
func (c *cycle) fail(state State, err error) {
	c.report.Err = err
	if state != "" {
		c.enter(state)
	}
}

// Run executes one cycle and always returns a Report with a final outcome.
// Run never returns an error; every failure is folded into the outcome.
func (o *Orchestrator) Run(ctx context.Context, req config.Request) (report Report) {
	report.StartedAt = time.Now()
	c := &cycle{ctx: ctx, req: req, report: &report, logger: o.logger}

	c.enter(StateStart)
	c.enter(StateResolvingID)
	id := correlation.Resolve(req.FileID, o.logger)
	report.CorrelationID = id
	c.ctx = services.WithCorrelationID(c.ctx, id.String())
	c.logger = logging.WithContext(c.ctx, o.logger)

	defer o.finish(c)

	deadline, cancel := context.WithTimeout(c.ctx, o.opts.Timeout)
	defer cancel()
	c.deadline = deadline

	if o.opts.LockDir != "" {
		lock, err := staging.Lock(o.opts.LockDir, id)
		if err != nil {
			c.fail("", err)
			return report
		}
		c.lock = lock
	}

	c.paths = o.store.PathsFor(id)
	if err := o.store.Stage(c.deadline, req.InputPath, c.paths); err != nil {
		if o.timedOut(c) {
			c.fail(StateTimedOut, services.Wrap(services.ErrTimeout, string(StateResolvingID), "stage",
				fmt.Sprintf("staging exceeded %s", o.opts.Timeout), err))
			return report
		}
		c.fail("", err)
		return report
	}
	c.enter(StateStaged)

	o.exchange(c)
	return report
}
