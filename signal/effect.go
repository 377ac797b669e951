package signal

// Diff is the before and after value of one watched dependency.
type Diff struct {
	Old any
	Val any
}

// Effect runs fn now and again whenever something it read changes. Effects are
// scopes: whatever fn creates is owned by the effect and is disposed when fn
// reruns or the effect is disposed.
func Effect(sys *System, fn func() error, opts ...Option) Disposer {
	n := sys.newNode(func() (any, error) {
		return nil, fn()
	}, nil, configure(opts))
	n.effect = true
	n.setState(IsScope)
	n.get(true)
	return Disposer{n: n}
}

// EffectOn runs fn only when one of deps changes, passing one Diff per dep.
// With WithImmediate(true) it also runs once at creation, with nil Old
// values. Reads inside fn are not tracked, but fn still owns what it creates.
func EffectOn(sys *System, deps []Source, fn func(diffs []Diff) error, opts ...Option) Disposer {
	cfg := configure(opts)
	var n *Node
	n = sys.newNode(watcher(deps, cfg.immediate, func(diffs []Diff) error {
		n.setState(LinkScopeOnly)
		defer n.clearState(LinkScopeOnly)
		return fn(diffs)
	}), nil, cfg)
	n.effect = true
	n.setState(IsScope)
	n.get(true)
	return Disposer{n: n}
}

// Watch calls fn with old and new values whenever one of deps changes. It
// never runs at creation, and fn runs outside any computation, so it neither
// tracks reads nor owns what it creates.
func Watch(sys *System, deps []Source, fn func(diffs []Diff), opts ...Option) Disposer {
	n := sys.newNode(watcher(deps, false, func(diffs []Diff) error {
		restore := sys.withReader(nil)
		defer restore()
		fn(diffs)
		return nil
	}), nil, configure(opts))
	n.effect = true
	n.setState(IsScope)
	n.get(true)
	return Disposer{n: n}
}

// watcher builds the pull of a deps based effect: read every dep, then call
// run with the differences, skipping the very first pass unless immediate.
func watcher(deps []Source, immediate bool, run func(diffs []Diff) error) func() (any, error) {
	var olds []any
	mounted := false
	return func() (any, error) {
		vals := make([]any, len(deps))
		for i, dep := range deps {
			vals[i] = dep.Node().get(true)
		}
		first := !mounted
		mounted = true
		prev := olds
		olds = vals
		if first && !immediate {
			return nil, nil
		}

		diffs := make([]Diff, len(vals))
		for i, v := range vals {
			diffs[i].Val = v
			if prev != nil {
				diffs[i].Old = prev[i]
			}
		}
		return nil, run(diffs)
	}
}
