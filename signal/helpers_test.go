package signal_test

import (
	"testing"

	"github.com/delaneyj/linesignal/schedule"
	"github.com/delaneyj/linesignal/signal"
	"github.com/stretchr/testify/assert"
)

func newSystem(t *testing.T, opts ...signal.SystemOption) *signal.System {
	t.Helper()
	opts = append([]signal.SystemOption{
		signal.WithOnError(func(n *signal.Node, err error) {
			assert.FailNow(t, err.Error(), "node %s", n)
		}),
	}, opts...)
	return signal.NewSystem(opts...)
}

func newLoopSystem(t *testing.T, opts ...signal.SystemOption) (*signal.System, *schedule.Loop) {
	t.Helper()
	loop := schedule.NewLoop()
	opts = append([]signal.SystemOption{signal.WithHost(loop.Host())}, opts...)
	return newSystem(t, opts...), loop
}
