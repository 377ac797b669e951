package signal

// Disposer tears down a scope or an effect.
type Disposer struct {
	n *Node
}

func (d Disposer) Dispose() {
	if d.n != nil {
		d.n.sys.dispose(d.n)
	}
}

func (d Disposer) Node() *Node {
	return d.n
}

// Scope runs body once with a new scope as owner of everything it creates and
// returns the handle that disposes all of it.
func Scope(sys *System, body func(), opts ...Option) Disposer {
	n := sys.newNode(func() (any, error) {
		body()
		return nil, nil
	}, nil, configure(opts))
	n.setState(IsScope)
	n.get(true)
	n.setState(ScopeReady)
	return Disposer{n: n}
}

// Clean registers fn on the running computation. It runs before the
// computation runs again and when its scope is disposed.
func Clean(sys *System, fn func()) error {
	n := sys.pulling
	if n == nil {
		sys.logger.Warn("signal clean ignored", "err", ErrNoComputation)
		return ErrNoComputation
	}
	n.cleans = append(n.cleans, fn)
	return nil
}
