package signal

import "time"

// disposal tears down one scope. It runs as a time-sliced task: each Run
// works until the slice budget is spent and keeps a cursor into the walk.
type disposal struct {
	sys    *System
	seq    uint64
	root   *Node
	cur    *cursor
	slices int
}

// dispose aborts a scope or effect and everything it owns. The first slice
// runs right away; the rest, if any, runs on the idle queue. Disposing a scope
// that is already being disposed does nothing.
func (s *System) dispose(n *Node) {
	if n.state&(ScopeAbort|ScopeAborted) != 0 {
		return
	}
	n.setState(ScopeAbort)

	s.disposeSeq++
	d := &disposal{sys: s, seq: s.disposeSeq, root: n}
	if !d.Run() {
		return
	}
	s.logger.Debug("signal disposal deferred", "scope", n.String(), "seq", d.seq)
	s.idle.Push(d)
}

func (s *System) disposeDone(d *disposal) {
	s.logger.Debug("signal disposal finished", "scope", d.root.String(), "seq", d.seq, "slices", d.slices)
	if s.onDisposeDone != nil {
		s.onDisposeDone(d.root)
	}
}

// Run performs one slice and reports whether work remains.
func (d *disposal) Run() bool {
	s := d.sys
	start := s.now()
	visited := 0

	d.slices++
	d.cur = s.walk(d.root, true, walkHooks{
		begin: func(n *Node, via lineID, depth int) step {
			if visited > 0 && d.spent(start) {
				return stepYield
			}
			visited++

			if n == d.root {
				return stepDescend
			}
			if n.ownedBy(d.root) {
				if n.state&IsScope != 0 {
					if n.state&ScopeAborted != 0 {
						return stepSkip
					}
					n.setState(ScopeAbort)
				}
				return stepDescend
			}
			// a computation only we read goes down with us
			if n.pull != nil && n.state&(IsScope|Check) == 0 &&
				n.emitStart == via && n.emitEnd == via {
				return stepDescend
			}
			return stepSkip
		},
		complete: func(n *Node, via lineID, skipped bool) step {
			if n == d.root {
				s.finalize(n)
				return stepNext
			}
			if n.ownedBy(d.root) {
				if n.state&IsScope != 0 {
					if !skipped {
						s.finalize(n)
					}
					return stepNext
				}
				// edges inside the scope go too, or the arena would keep the
				// disposed nodes alive
				n.clearState(OutLink)
				n.runCleans()
				return stepUnlink
			}
			if !skipped {
				// collapsed with us
				n.runCleans()
			}
			return stepUnlink
		},
	}, d.resumable())

	return d.cur != nil
}

func (d *disposal) spent(start time.Time) bool {
	return d.sys.now().Sub(start) >= d.sys.sliceBudget
}

// resumable returns the cursor if the graph still matches it. Anything else
// restarts the walk from the root, which is safe because every finished part
// has already been cut off.
func (d *disposal) resumable() *cursor {
	c := d.cur
	if c == nil {
		return nil
	}
	s := d.sys
	if !s.lines.alive(c.via) {
		return nil
	}
	for _, r := range c.stack {
		if r.id == 0 {
			continue
		}
		if !s.lines.alive(r) {
			return nil
		}
		up := s.ln(r.id).up
		if !up.ownedBy(d.root) && (up.emitStart != r.id || up.emitEnd != r.id) {
			return nil
		}
	}
	return c
}

// finalize cuts a scope loose: its cross-scope edges, its cleanups and its
// consumers.
func (s *System) finalize(n *Node) {
	if n.state&ScopeAborted != 0 {
		return
	}
	for n.outStart != 0 {
		id := n.outStart
		producer := s.ln(id).up
		s.unlink(id)
		if producer.emitStart == 0 {
			s.collapse(producer)
		}
	}
	n.runCleans()
	s.unlinkEmit(n.emitStart)
	n.setState(ScopeAbort | ScopeAborted)
	n.clearState(DirtyState | Check | OutLink)
}
