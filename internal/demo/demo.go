// Package demo drives a Store with the classic four-worker scenario: two
// readers and two writers running concurrently against a seeded phonebook,
// each pausing between operations so their lock holds interleave.
package demo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/phonebook/internal/config"
	"github.com/Iron-Ham/phonebook/internal/errors"
	"github.com/Iron-Ham/phonebook/internal/logging"
	"github.com/Iron-Ham/phonebook/internal/phonebook"
)

// NamePrefix and PhonePrefix build the demo's synthetic records.
const (
	NamePrefix  = "П.І.Б."
	PhonePrefix = "4444444-"
)

// Operations reported in Events.
const (
	OpSeed        = "seed"
	OpLookupName  = "lookup-name"
	OpLookupPhone = "lookup-phone"
	OpInsert      = "insert"
	OpRemove      = "remove"
)

// Name returns the i-th synthetic name.
func Name(i int) string {
	return NamePrefix + strconv.Itoa(i)
}

// Phone returns the phone the inserter pairs with Name(i).
func Phone(i int) string {
	return PhonePrefix + strconv.Itoa(i)
}

// SeedPhone returns the phone of the i-th seeded record: the digit repeated
// eight times.
func SeedPhone(i int) string {
	return strings.Repeat(strconv.Itoa(i), 8)
}

// Event describes one completed worker operation.
type Event struct {
	Worker string
	Op     string
	Key    string
	Value  string
	Found  bool
	Count  int
	Err    error
	At     time.Time
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s failed: %v", e.Worker, e.Op, e.Key, e.Err)
	}
	switch e.Op {
	case OpLookupName:
		if !e.Found {
			return fmt.Sprintf("%s: no phone for %s", e.Worker, e.Key)
		}
		return fmt.Sprintf("%s: found phone %s for %s", e.Worker, e.Value, e.Key)
	case OpLookupPhone:
		if !e.Found {
			return fmt.Sprintf("%s: no name for phone %s", e.Worker, e.Key)
		}
		return fmt.Sprintf("%s: found name %s for phone %s", e.Worker, e.Value, e.Key)
	case OpInsert, OpSeed:
		return fmt.Sprintf("%s: added %s with phone %s", e.Worker, e.Key, e.Value)
	case OpRemove:
		return fmt.Sprintf("%s: removed %d record(s) for %s", e.Worker, e.Count, e.Key)
	}
	return fmt.Sprintf("%s: %s %s", e.Worker, e.Op, e.Key)
}

// WorkerResult tallies one worker's run.
type WorkerResult struct {
	Worker   string
	Ops      int
	Hits     int
	Misses   int
	Affected int
	Failures int
}

// Summary is returned by Run once every worker has finished.
type Summary struct {
	Seeded   int
	Workers  []WorkerResult
	Duration time.Duration
}

// Failures sums failures across workers.
func (s Summary) Failures() int {
	n := 0
	for _, w := range s.Workers {
		n += w.Failures
	}
	return n
}

// Runner runs the scenario.
type Runner struct {
	store   *phonebook.Store
	cfg     config.DemoConfig
	logger  *logging.Logger
	onEvent func(Event)

	opTimeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithEventHandler receives every Event. It is called concurrently from the
// worker goroutines.
func WithEventHandler(fn func(Event)) Option {
	return func(r *Runner) {
		r.onEvent = fn
	}
}

// WithOpTimeout bounds each store operation, including its wait for the
// lock. An operation that runs out of time counts as a failure and the
// worker moves on. Zero means no bound.
func WithOpTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.opTimeout = d
	}
}

// NewRunner creates a Runner over store.
func NewRunner(store *phonebook.Store, cfg config.DemoConfig, opts ...Option) *Runner {
	r := &Runner{
		store:   store,
		cfg:     cfg,
		logger:  logging.NopLogger(),
		onEvent: func(Event) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("demo")
	return r
}

// Seed optionally clears the store, then inserts the seed records in order.
func (r *Runner) Seed(ctx context.Context) (int, error) {
	if r.cfg.Reset {
		opCtx, cancel := r.opContext(ctx)
		err := r.store.Clear(opCtx)
		cancel()
		if err != nil {
			return 0, errors.Wrap(err, "reset store")
		}
		r.logger.Debug("store reset")
	}

	for i := 1; i <= r.cfg.SeedRecords; i++ {
		name, phone := Name(i), SeedPhone(i)
		opCtx, cancel := r.opContext(ctx)
		err := r.store.Insert(opCtx, name, phone)
		cancel()
		if err != nil {
			return i - 1, errors.Wrapf(err, "seed record %d", i)
		}
		r.emit(Event{Worker: "seed", Op: OpSeed, Key: name, Value: phone})
	}
	r.logger.Info("store seeded", "records", r.cfg.SeedRecords)
	return r.cfg.SeedRecords, nil
}

// Run seeds the store and runs the four workers to completion. A worker
// whose operation fails logs it and moves on; only cancellation of ctx stops
// the run early.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	seeded, err := r.Seed(ctx)
	if err != nil {
		return Summary{Seeded: seeded}, err
	}

	workers := []struct {
		role string
		id   int
		cfg  config.WorkerConfig
		step func(ctx context.Context, i int, res *WorkerResult) Event
	}{
		{"reader", 1, r.cfg.NameReader, r.lookupName},
		{"reader", 2, r.cfg.PhoneReader, r.lookupPhone},
		{"writer", 1, r.cfg.Inserter, r.insert},
		{"writer", 2, r.cfg.Remover, r.remove},
	}

	results := make([]WorkerResult, len(workers))
	p := pool.New().WithContext(ctx)
	for idx, w := range workers {
		w := w
		res := &results[idx]
		res.Worker = fmt.Sprintf("%s-%d", w.role, w.id)
		log := r.logger.WithWorker(w.role, w.id)
		p.Go(func(ctx context.Context) error {
			return r.work(ctx, log, w.cfg, res, w.step)
		})
	}
	err = p.Wait()

	summary := Summary{
		Seeded:   seeded,
		Workers:  results,
		Duration: time.Since(start),
	}
	r.logger.Info("demo finished",
		"duration", summary.Duration.String(),
		"failures", summary.Failures(),
	)
	return summary, err
}

func (r *Runner) work(
	ctx context.Context,
	log *logging.Logger,
	cfg config.WorkerConfig,
	res *WorkerResult,
	step func(ctx context.Context, i int, res *WorkerResult) Event,
) error {
	for i := 1; i <= cfg.Iterations; i++ {
		opCtx, cancel := r.opContext(ctx)
		ev := step(opCtx, i, res)
		cancel()
		ev.Worker = res.Worker
		res.Ops++

		if ev.Err != nil {
			if ctx.Err() != nil {
				return ev.Err
			}
			res.Failures++
			logFailure(log, ev)
		} else {
			log.Debug("operation done", "op", ev.Op, "key", ev.Key, "value", ev.Value)
		}
		r.emit(ev)

		if err := sleep(ctx, cfg.Delay()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) lookupName(ctx context.Context, i int, res *WorkerResult) Event {
	name := Name(i)
	phone, err := r.store.LookupByName(ctx, name)
	return r.lookupEvent(OpLookupName, name, phone, err, res)
}

func (r *Runner) lookupPhone(ctx context.Context, i int, res *WorkerResult) Event {
	phone := Phone(i)
	name, err := r.store.LookupByPhone(ctx, phone)
	return r.lookupEvent(OpLookupPhone, phone, name, err, res)
}

func (r *Runner) lookupEvent(op, key, value string, err error, res *WorkerResult) Event {
	ev := Event{Op: op, Key: key}
	switch {
	case err == nil:
		ev.Found, ev.Value = true, value
		res.Hits++
	case errors.Is(err, errors.ErrNotFound):
		res.Misses++
	default:
		ev.Err = err
	}
	return ev
}

func (r *Runner) insert(ctx context.Context, i int, res *WorkerResult) Event {
	ev := Event{Op: OpInsert, Key: Name(i), Value: Phone(i)}
	if ev.Err = r.store.Insert(ctx, ev.Key, ev.Value); ev.Err == nil {
		res.Affected++
	}
	return ev
}

func (r *Runner) remove(ctx context.Context, i int, res *WorkerResult) Event {
	ev := Event{Op: OpRemove, Key: Name(i)}
	ev.Count, ev.Err = r.store.Remove(ctx, ev.Key)
	res.Affected += ev.Count
	return ev
}

func (r *Runner) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout > 0 {
		return context.WithTimeout(ctx, r.opTimeout)
	}
	return context.WithCancel(ctx)
}

// logFailure logs a failed operation at the level its error calls for.
func logFailure(log *logging.Logger, ev Event) {
	severity := errors.GetSeverity(ev.Err)
	args := []any{
		"op", ev.Op,
		"key", ev.Key,
		"error", ev.Err,
		"severity", severity.String(),
		"retryable", errors.IsRetryable(ev.Err),
	}
	switch severity {
	case errors.SeverityDebug:
		log.Debug("operation failed", args...)
	case errors.SeverityInfo:
		log.Info("operation failed", args...)
	case errors.SeverityWarning:
		log.Warn("operation failed", args...)
	default:
		log.Error("operation failed", args...)
	}
}

func (r *Runner) emit(ev Event) {
	ev.At = time.Now()
	r.onEvent(ev)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
