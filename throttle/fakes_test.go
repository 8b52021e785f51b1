package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// fakeClock is anchored at the zero time, so "never reported" and "now"
// coincide until the test advances it.
type fakeClock struct {
	mu      sync.Mutex
	elapsed time.Duration
	calls   int
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	return time.Time{}.Add(c.elapsed)
}

func (c *fakeClock) set(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.elapsed = d
}

type scheduled struct {
	delay     time.Duration
	action    func()
	cancelled bool
}

// fakeTimer records every scheduling request and never fires on its own.
type fakeTimer struct {
	mu    sync.Mutex
	calls []*scheduled
}

func (f *fakeTimer) schedule(delay time.Duration, action func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := &scheduled{delay: delay, action: action}
	f.calls = append(f.calls, s)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		s.cancelled = true
	}
}

func (f *fakeTimer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakeTimer) last() *scheduled {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeTimer) delays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]time.Duration, len(f.calls))
	for i, s := range f.calls {
		out[i] = s.delay
	}
	return out
}

func (f *fakeTimer) live() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int
	for _, s := range f.calls {
		if !s.cancelled {
			n++
		}
	}
	return n
}

// fire runs the most recent action, as the timer service would on expiry.
func (f *fakeTimer) fire() {
	s := f.last()
	if s == nil {
		panic("fakeTimer: nothing scheduled")
	}
	s.action()
}

type reporter struct {
	mu     sync.Mutex
	counts []int
}

func (r *reporter) report(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts = append(r.counts, count)
}

func (r *reporter) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.counts)
}

func (r *reporter) lastCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.counts) == 0 {
		return -1
	}
	return r.counts[len(r.counts)-1]
}

func (r *reporter) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, c := range r.counts {
		n += c
	}
	return n
}

type recordingTracer struct {
	noop.Tracer

	mu    sync.Mutex
	spans []string
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.mu.Lock()
	r.spans = append(r.spans, name)
	r.mu.Unlock()

	return r.Tracer.Start(ctx, name, opts...)
}

type harness struct {
	*Throttle
	clock    *fakeClock
	timer    *fakeTimer
	reporter *reporter
}

func newHarness(t testing.TB, optFns ...Option) *harness {
	t.Helper()

	h := &harness{
		clock:    &fakeClock{},
		timer:    &fakeTimer{},
		reporter: &reporter{},
	}

	opts := []Option{
		WithClock(h.clock.now),
		WithTimer(h.timer.schedule),
		WithReportFunc(h.reporter.report),
	}
	opts = append(opts, optFns...)

	th, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.Throttle = th

	return h
}
