// Package throttle provides a report throttle that batches a stream of
// notifications into periodic reports carrying an aggregate count.
//
// Reports are spaced at least MinDelay apart. While idle, a keepalive
// check fires every MaxDelay (or MinDelay, whichever is larger) so the
// report func runs even when nothing was notified; it receives a zero
// count in that case.
//
// # Usage
//
//	t, err := throttle.New(
//		throttle.WithMinDelay(time.Second),
//		throttle.WithMaxDelay(5*time.Second),
//		throttle.WithReportFunc(func(count int) {
//			slog.Info("events", "count", count)
//		}),
//	)
//	if err != nil {
//		return err
//	}
//
//	t.Notify()                   // counted, reported when the gate opens
//	t.Notify(throttle.Force())   // reported now
//	t.Notify(throttle.Halt())    // no further automatic reports
//
// Clock and timer service are injectable with [WithClock] and [WithTimer],
// which makes the scheduling fully deterministic under test.
package throttle
