package throttle

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Throttle] via [New].
type Option func(*options) error
type options struct {
	cfg    Config
	report ReportFunc
	clock  Clock
	timer  TimerFunc
	logger *slog.Logger
	tracer trace.Tracer
}

// WithReportFunc sets the func invoked with the accumulated count on each report.
func WithReportFunc(fn ReportFunc) Option {
	return func(o *options) error {
		if fn == nil {
			return fmt.Errorf("report %w", ErrNilFunc)
		}
		o.report = fn
		return nil
	}
}

// WithMinDelay sets the minimum spacing between reports.
func WithMinDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("min delay[%s] %w", d, ErrNegativeDelay)
		}
		o.cfg.MinDelay = d
		return nil
	}
}

// WithMaxDelay sets the idle keepalive spacing. Zero disables the keepalive.
func WithMaxDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("max delay[%s] %w", d, ErrNegativeDelay)
		}
		o.cfg.MaxDelay = d
		return nil
	}
}

// WithConfig replaces both delays, typically with a config from [LoadConfig].
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.cfg = cfg
		return nil
	}
}

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(o *options) error {
		if clock == nil {
			return fmt.Errorf("clock %w", ErrNilFunc)
		}
		o.clock = clock
		return nil
	}
}

// WithTimer replaces the [SystemTimer] timer service.
func WithTimer(timer TimerFunc) Option {
	return func(o *options) error {
		if timer == nil {
			return fmt.Errorf("timer %w", ErrNilFunc)
		}
		o.timer = timer
		return nil
	}
}

// WithLogger enables debug logging of reports and halts.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracer records a span for every report.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// /////////////////////////////////////////////////////////////////

// NotifyOption defines optional settings for *Throttle.Notify.
//
// WithReport replaces the report func before the notification is processed.
// Force bypasses the MinDelay gate for this call.
// Halt cancels the pending timer after this call and does not re-arm it.
type NotifyOption func(*notifyOpts)

type notifyOpts struct {
	report ReportFunc
	force  bool
	halt   bool
}

// WithReport replaces the active report func for this and all later
// reports. A nil fn leaves the current func in place.
func WithReport(fn ReportFunc) NotifyOption {
	return func(o *notifyOpts) {
		o.report = fn
	}
}

func Force() NotifyOption {
	return func(o *notifyOpts) {
		o.force = true
	}
}

func Halt() NotifyOption {
	return func(o *notifyOpts) {
		o.halt = true
	}
}
