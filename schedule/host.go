package schedule

// Callback hands fn to a host primitive that will call it later, exactly
// once, on the goroutine that owns the signal graph.
type Callback func(fn func())

// Immediate runs fn before returning. It is the last-resort fallback when a
// host offers no deferral primitive at all.
func Immediate(fn func()) { fn() }

// Host bundles the scheduling primitives the engine consumes. Any of them may
// be nil; Resolve substitutes the closest available one.
type Host struct {
	Micro Callback // runs after the current task, before any macrotask
	Macro Callback // zero-delay task
	Frame Callback // aligned with the next frame
	Idle  Callback // runs when nothing else is pending
}

// Resolve returns a copy of h with every missing primitive replaced by a
// best-effort fallback: Frame falls back to Macro, Idle to Frame, Macro to
// Micro and Micro to Immediate.
func (h Host) Resolve() Host {
	if h.Micro == nil {
		h.Micro = Immediate
	}
	if h.Macro == nil {
		h.Macro = h.Micro
	}
	if h.Frame == nil {
		h.Frame = h.Macro
	}
	if h.Idle == nil {
		h.Idle = h.Frame
	}
	return h
}
