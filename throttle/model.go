package throttle

import (
	"errors"
	"time"
)

const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 5 * time.Second
)

var (
	ErrNegativeDelay = errors.New("delay must not be negative")
	ErrNilFunc       = errors.New("func must not be nil")
)

// ReportFunc receives the number of notifications since the previous report.
type ReportFunc func(count int)

// Clock returns the current time.
type Clock func() time.Time

// TimerFunc schedules action to run once after delay. The returned cancel
// func prevents action from running if it has not fired yet; calling it
// more than once, or after action fired, is a no-op. action must not be
// run synchronously from within the TimerFunc call.
type TimerFunc func(delay time.Duration, action func()) (cancel func())

// SystemTimer is the default TimerFunc, backed by time.AfterFunc.
func SystemTimer(delay time.Duration, action func()) func() {
	t := time.AfterFunc(delay, action)
	return func() {
		t.Stop()
	}
}

// Config holds the throttle delays. A zero MaxDelay disables the idle
// keepalive timer.
type Config struct {
	MinDelay time.Duration `yaml:"min_delay" validate:"gte=0"`
	MaxDelay time.Duration `yaml:"max_delay" validate:"gte=0"`
}

// DefaultConfig returns the config used when no delays are given.
func DefaultConfig() Config {
	return Config{
		MinDelay: DefaultMinDelay,
		MaxDelay: DefaultMaxDelay,
	}
}
