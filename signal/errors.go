package signal

import "errors"

var (
	// ErrCycle is reported when a computation reads itself, directly or
	// through its producers.
	ErrCycle = errors.New("signal: cycle detected")
	// ErrPanic wraps a value recovered from a panicking computation.
	ErrPanic = errors.New("signal: computation panicked")
	// ErrNoComputation is returned by Clean outside of a running computation.
	ErrNoComputation = errors.New("signal: no running computation")
)
