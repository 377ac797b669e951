package signal

import "github.com/delaneyj/linesignal/schedule"

// ScheduleHandler receives the effects a write reached, in marking order.
// It must eventually call RunIfDirty on each of them.
type ScheduleHandler func(effects []*Node)

// Built-in scheduling domains.
const (
	SchedSync   = "sync"
	SchedMicro  = "micro"
	SchedMacro  = "macro"
	SchedLayout = "layout"
)

// Scheduler registers or replaces a named scheduling domain.
func (s *System) Scheduler(name string, handler ScheduleHandler) {
	s.schedulers[name] = handler
}

func (s *System) registerDefaultSchedulers() {
	s.schedulers[SchedSync] = runEffects
	s.schedulers[SchedMicro] = queued(s.host.Micro)
	s.schedulers[SchedMacro] = queued(s.host.Macro)
	s.schedulers[SchedLayout] = queued(s.host.Frame)
}

func (s *System) dispatch(name string, effects []*Node) {
	h, ok := s.schedulers[name]
	if !ok {
		s.logger.Warn("signal scheduler not registered, running synchronously", "scheduler", name)
		h = runEffects
	}
	h(effects)
}

func runEffects(effects []*Node) {
	for _, e := range effects {
		e.RunIfDirty()
	}
}

// batch is one bucket handed to a queued scheduler.
type batch struct {
	seq     uint64
	effects []*Node
}

func (b *batch) Run() bool {
	runEffects(b.effects)
	return false
}

// queued returns a handler that runs each bucket from a task queue bound to
// arm, in submission order.
func queued(arm schedule.Callback) ScheduleHandler {
	var seq uint64
	q := schedule.NewTaskQueue(arm, func(a, b *batch) bool {
		return a.seq < b.seq
	})
	return func(effects []*Node) {
		seq++
		q.Push(&batch{seq: seq, effects: effects})
	}
}
