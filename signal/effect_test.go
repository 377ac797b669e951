package signal_test

import (
	"testing"

	"github.com/delaneyj/linesignal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectRunsOnWrite(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1)
	b := signal.Computed(sys, func() int {
		return a.Get() * 10
	})

	var seen []int
	e := signal.Effect(sys, func() error {
		seen = append(seen, b.Get())
		return nil
	})
	assert.Equal(t, []int{10}, seen)

	a.Set(2)
	a.Set(3)
	assert.Equal(t, []int{10, 20, 30}, seen)

	e.Dispose()
	a.Set(4)
	assert.Equal(t, []int{10, 20, 30}, seen)
	assert.Empty(t, b.Node().Downstreams())
}

func TestEffectSkipsWhenComputedUnchanged(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1)
	parity := signal.Computed(sys, func() bool {
		return a.Get()%2 == 0
	})

	runs := 0
	signal.Effect(sys, func() error {
		parity.Get()
		runs++
		return nil
	})

	a.Set(3)
	assert.Equal(t, 1, runs)
	a.Set(4)
	assert.Equal(t, 2, runs)
}

func TestEffectOn(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1, signal.WithName("a"))
	b := signal.New(sys, "x", signal.WithName("b"))
	untracked := signal.New(sys, 0)

	var calls [][]signal.Diff
	signal.EffectOn(sys, []signal.Source{a, b}, func(diffs []signal.Diff) error {
		untracked.Get()
		calls = append(calls, diffs)
		return nil
	})
	assert.Empty(t, calls)

	a.Set(2)
	require.Len(t, calls, 1)
	assert.Equal(t, []signal.Diff{{Old: 1, Val: 2}, {Old: "x", Val: "x"}}, calls[0])

	a.Set(2)
	require.Len(t, calls, 1, "same value is not a change")

	b.Set("y")
	require.Len(t, calls, 2)
	assert.Equal(t, []signal.Diff{{Old: 2, Val: 2}, {Old: "x", Val: "y"}}, calls[1])

	untracked.Set(5)
	assert.Len(t, calls, 2)
	assert.Empty(t, untracked.Node().Downstreams())
}

func TestEffectOnImmediate(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1)
	var calls [][]signal.Diff
	signal.EffectOn(sys, []signal.Source{a}, func(diffs []signal.Diff) error {
		calls = append(calls, diffs)
		return nil
	}, signal.WithImmediate(true))

	require.Len(t, calls, 1)
	assert.Equal(t, []signal.Diff{{Old: nil, Val: 1}}, calls[0])

	a.Set(2)
	require.Len(t, calls, 2)
	assert.Equal(t, []signal.Diff{{Old: 1, Val: 2}}, calls[1])
}

func TestWatch(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1)
	other := signal.New(sys, 0)

	var diffs []signal.Diff
	w := signal.Watch(sys, []signal.Source{a}, func(d []signal.Diff) {
		other.Get()
		diffs = append(diffs, d...)
	}, signal.WithImmediate(true))
	assert.Empty(t, diffs, "watch never runs at creation")

	a.Set(2)
	assert.Equal(t, []signal.Diff{{Old: 1, Val: 2}}, diffs)
	assert.Empty(t, other.Node().Downstreams())

	w.Dispose()
	a.Set(3)
	assert.Len(t, diffs, 1)
}

func TestMicroSchedulerBatchesWrites(t *testing.T) {
	sys, loop := newLoopSystem(t)

	a := signal.New(sys, 1)
	var seen []int
	signal.Effect(sys, func() error {
		seen = append(seen, a.Get())
		return nil
	}, signal.WithScheduler(signal.SchedMicro))
	assert.Equal(t, []int{1}, seen, "first run is synchronous")

	a.Set(2)
	a.Set(3)
	assert.Equal(t, []int{1}, seen)
	assert.Equal(t, 1, loop.Pending())

	loop.RunUntilIdle()
	assert.Equal(t, []int{1, 3}, seen)
}

func TestSchedulersRunInHostOrder(t *testing.T) {
	sys, loop := newLoopSystem(t)

	a := signal.New(sys, 0)
	var order []string
	for _, name := range []string{signal.SchedLayout, signal.SchedMacro, signal.SchedMicro, signal.SchedSync} {
		signal.Effect(sys, func() error {
			if a.Get() > 0 {
				order = append(order, name)
			}
			return nil
		}, signal.WithScheduler(name))
	}

	a.Set(1)
	assert.Equal(t, []string{signal.SchedSync}, order)

	loop.RunUntilIdle()
	assert.Equal(t, []string{
		signal.SchedSync,
		signal.SchedMicro,
		signal.SchedMacro,
		signal.SchedLayout,
	}, order)
}

func TestDisposeBeforeFlushSuppressesRun(t *testing.T) {
	sys, loop := newLoopSystem(t)

	a := signal.New(sys, 1)
	runs := 0
	e := signal.Effect(sys, func() error {
		a.Get()
		runs++
		return nil
	}, signal.WithScheduler(signal.SchedMicro))

	a.Set(2)
	e.Dispose()
	loop.RunUntilIdle()
	assert.Equal(t, 1, runs)
	assert.True(t, e.Node().State().Has(signal.ScopeAborted))
}

func TestCustomScheduler(t *testing.T) {
	sys := newSystem(t)

	var queued []*signal.Node
	sys.Scheduler("manual", func(effects []*signal.Node) {
		queued = append(queued, effects...)
	})

	a := signal.New(sys, 1)
	runs := 0
	e := signal.Effect(sys, func() error {
		a.Get()
		runs++
		return nil
	}, signal.WithScheduler("manual"))

	a.Set(2)
	require.Equal(t, []*signal.Node{e.Node()}, queued)
	assert.Equal(t, 1, runs)

	for _, n := range queued {
		n.RunIfDirty()
	}
	assert.Equal(t, 2, runs)

	// nothing changed since, so a second flush is a no-op
	e.Node().RunIfDirty()
	assert.Equal(t, 2, runs)
}

func TestUnknownSchedulerRunsSynchronously(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1)
	runs := 0
	signal.Effect(sys, func() error {
		a.Get()
		runs++
		return nil
	}, signal.WithScheduler("nope"))

	a.Set(2)
	assert.Equal(t, 2, runs)
}

func TestNestedEffectIsReplacedOnRerun(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1, signal.WithName("a"))
	b := signal.New(sys, 1, signal.WithName("b"))

	outerRuns, innerRuns := 0, 0
	outer := signal.Effect(sys, func() error {
		a.Get()
		outerRuns++
		signal.Effect(sys, func() error {
			b.Get()
			innerRuns++
			return nil
		}, signal.WithName("inner"))
		return nil
	}, signal.WithName("outer"))

	assert.Equal(t, 1, outerRuns)
	assert.Equal(t, 1, innerRuns)
	assert.Equal(t, []*signal.Node{b.Node()}, outer.Node().OutLinks())
	assert.True(t, outer.Node().State().Has(signal.OutLink))

	b.Set(2)
	assert.Equal(t, 1, outerRuns)
	assert.Equal(t, 2, innerRuns)

	a.Set(2)
	assert.Equal(t, 2, outerRuns)
	assert.Equal(t, 3, innerRuns)
	assert.Len(t, b.Node().Downstreams(), 1, "the first inner effect is gone")
	assert.Equal(t, []*signal.Node{b.Node()}, outer.Node().OutLinks())

	b.Set(3)
	assert.Equal(t, 4, innerRuns)

	outer.Dispose()
	b.Set(4)
	assert.Equal(t, 4, innerRuns)
	assert.Empty(t, b.Node().Downstreams())
	assert.Empty(t, outer.Node().OutLinks())
}

func TestEffectOnOwnsWhatItCreates(t *testing.T) {
	sys := newSystem(t)

	trigger := signal.New(sys, 0)
	b := signal.New(sys, 0)

	innerRuns := 0
	signal.EffectOn(sys, []signal.Source{trigger}, func([]signal.Diff) error {
		signal.Effect(sys, func() error {
			b.Get()
			innerRuns++
			return nil
		})
		return nil
	}, signal.WithImmediate(true))
	assert.Equal(t, 1, innerRuns)

	trigger.Set(1)
	assert.Equal(t, 2, innerRuns)

	b.Set(1)
	assert.Equal(t, 3, innerRuns, "only the latest inner effect is alive")
}

func TestCleanRunsBeforeRerunAndOnDispose(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 1)
	var log []string
	e := signal.Effect(sys, func() error {
		v := a.Get()
		log = append(log, "run")
		return signal.Clean(sys, func() {
			if v > 0 {
				log = append(log, "clean")
			}
		})
	})

	a.Set(2)
	assert.Equal(t, []string{"run", "clean", "run"}, log)

	e.Dispose()
	assert.Equal(t, []string{"run", "clean", "run", "clean"}, log)

	e.Dispose()
	assert.Len(t, log, 4)
}

func TestDirectReadKeepsPendingEffectDirty(t *testing.T) {
	sys, loop := newLoopSystem(t)

	a := signal.New(sys, 0, signal.WithName("a"))
	positive := signal.Computed(sys, func() bool { return a.Get() > 0 }, signal.WithName("positive"))
	x := signal.New(sys, 1, signal.WithName("x"))

	var seen []int
	signal.Effect(sys, func() error {
		positive.Get()
		seen = append(seen, x.Get())
		return nil
	}, signal.WithScheduler(signal.SchedMicro))

	// the first write leaves the effect Unknown, so the second one stops there
	a.Set(2)
	x.Set(5)
	assert.Equal(t, 5, x.Get())

	loop.RunUntilIdle()
	assert.Equal(t, []int{1, 5}, seen)
}

func TestEffectDisposingItselfLinksNothingMore(t *testing.T) {
	sys := newSystem(t)

	a := signal.New(sys, 0, signal.WithName("a"))
	b := signal.New(sys, 0, signal.WithName("b"))
	runs := 0
	var e signal.Disposer
	e = signal.Effect(sys, func() error {
		runs++
		if a.Get() == 2 {
			e.Dispose()
		}
		b.Get()
		return nil
	}, signal.WithName("E"))
	require.Equal(t, 2, sys.LiveEdges())

	a.Set(2)
	assert.Equal(t, 2, runs)
	assert.True(t, e.Node().State().Has(signal.ScopeAborted))
	assert.Empty(t, a.Node().Downstreams())
	assert.Empty(t, b.Node().Downstreams())
	assert.Equal(t, 0, sys.LiveEdges())

	b.Set(1)
	assert.Equal(t, 2, runs)
}
