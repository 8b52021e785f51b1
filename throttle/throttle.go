package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

// Throttle batches notifications into reports spaced at least MinDelay
// apart, with an idle keepalive every max(MaxDelay, MinDelay).
type Throttle struct {
	id     string
	cfg    Config
	clock  Clock
	timer  TimerFunc
	logFn  func() *slog.Logger
	tracer trace.Tracer

	// deferred samples the debug record for notifications held back by the gate.
	deferred rate.Sometimes

	mu         sync.Mutex
	report     ReportFunc
	count      int
	lastReport time.Time
	cancel     func()
	gen        uint64
}

// New builds a Throttle and arms the idle timer when MaxDelay is enabled.
func New(optFns ...Option) (*Throttle, error) {
	opts := options{
		cfg:   DefaultConfig(),
		clock: time.Now,
		timer: SystemTimer,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying throttle option: %w", err)
		}
	}

	if err := opts.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if opts.tracer == nil {
		opts.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	logger := opts.logger
	t := &Throttle{
		id:       uuid.NewString(),
		cfg:      opts.cfg,
		clock:    opts.clock,
		timer:    opts.timer,
		logFn:    func() *slog.Logger { return logger },
		tracer:   opts.tracer,
		deferred: rate.Sometimes{Interval: opts.cfg.MinDelay},
		report:   opts.report,
	}

	t.mu.Lock()
	t.reschedule()
	t.mu.Unlock()

	return t, nil
}

// ID returns the identifier attached to this throttle's logs and spans.
func (t *Throttle) ID() string {
	return t.id
}

// Count returns the number of notifications accumulated since the last report.
func (t *Throttle) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}

// Notify records one notification and reports if the MinDelay gate is open
// or Force is given. The report func runs on the caller's goroutine and
// must not call Notify on the same Throttle.
func (t *Throttle) Notify(optFns ...NotifyOption) {
	var opts notifyOpts
	for _, opt := range optFns {
		opt(&opts)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if opts.report != nil {
		t.report = opts.report
	}

	t.count++
	t.tryReport(opts.force)

	if opts.halt {
		t.stopTimer()
		if logger := t.logFn(); logger != nil {
			logger.Debug("throttle halted", "id", t.id, "pending", t.count)
		}
		return
	}

	t.reschedule()
}

// tryReport emits a report when forced or when MinDelay has elapsed.
// Callers must hold mu.
func (t *Throttle) tryReport(force bool) {
	now := t.clock()
	if !force && now.Sub(t.lastReport) < t.cfg.MinDelay {
		if logger := t.logFn(); logger != nil {
			t.deferred.Do(func() {
				logger.Debug("throttle report deferred", "id", t.id, "pending", t.count)
			})
		}
		return
	}

	count := t.count
	if t.report != nil {
		_, span := t.tracer.Start(context.Background(), "throttle.report")
		span.SetAttributes(
			attribute.String("throttle.id", t.id),
			attribute.Int("throttle.count", count),
			attribute.Bool("throttle.forced", force),
		)
		t.report(count)
		span.End()
	}

	t.lastReport = t.clock()
	t.count = 0

	if logger := t.logFn(); logger != nil {
		logger.Debug("throttle report", "id", t.id, "count", count, "forced", force)
	}
}

// reschedule replaces the pending timer: MinDelay while notifications are
// pending, otherwise the idle keepalive. Callers must hold mu.
func (t *Throttle) reschedule() {
	t.stopTimer()

	switch {
	case t.count > 0:
		t.arm(t.cfg.MinDelay)
	case t.cfg.MaxDelay > 0:
		t.arm(max(t.cfg.MaxDelay, t.cfg.MinDelay))
	}
}

// arm schedules the next check so it lands delayCap after the last report,
// never with a negative delay.
func (t *Throttle) arm(delayCap time.Duration) {
	delay := delayCap - min(delayCap, t.clock().Sub(t.lastReport))

	gen := t.gen
	t.cancel = t.timer(delay, func() {
		t.fire(gen)
	})
}

// fire is the timer callback. A stale generation means the timer was
// replaced or cancelled after it began firing.
func (t *Throttle) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return
	}

	t.tryReport(false)
	t.reschedule()
}

// stopTimer cancels the pending timer, if any. Callers must hold mu.
func (t *Throttle) stopTimer() {
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
