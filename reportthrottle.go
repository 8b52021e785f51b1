// Package reportthrottle exposes the report throttle builder.
package reportthrottle

import (
	"github.com/adamwoolhether/reportthrottle/throttle"
)

// New instantiates a new *Throttle with the provided options.
// If not specified, delays default to 1s minimum and 5s idle keepalive,
// driven by the system clock and time.AfterFunc.
func New(opts ...throttle.Option) (*throttle.Throttle, error) {
	return throttle.New(opts...)
}
