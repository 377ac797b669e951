package signal

import "fmt"

// get resolves n. When track is set and a computation is running, the read
// is recorded as an edge n -> reader first.
func (n *Node) get(track bool) any {
	s := n.sys
	reader := s.pulling
	linked := false
	// a reader that disposed itself mid-run records nothing more
	if track && reader != nil && reader != n && reader.state&(ScopeAbort|ScopeAborted) == 0 {
		if reader.state&LinkScopeOnly == 0 || n.state&IsScope != 0 {
			s.link(n, reader)
			linked = true
		}
	}

	switch {
	case n.state&Check != 0:
		s.report(n, fmt.Errorf("%w: %s", ErrCycle, n))
	case n.disabled():
	case n.recStart == 0:
		n.pullRecurse(false)
	default:
		n.pullDeep()
	}

	if linked {
		s.markOutLink(n, reader)
	}
	return n.value
}

// markOutLink flags the reader when the edge from producer crosses its scope,
// or when the producer itself needs attention during disposal.
func (s *System) markOutLink(producer, reader *Node) {
	if producer.state&(OutLink|IsScope) != 0 ||
		(reader.scope != nil && !producer.ownedBy(reader.scope)) {
		reader.setState(OutLink)
	}
}

// pullRecurse runs n's computation when its version is behind the epoch, or
// always when force is set. It reports whether the value changed.
func (n *Node) pullRecurse(force bool) bool {
	s := n.sys
	epoch := s.version
	if !force && n.version == epoch {
		return false
	}

	if n.pull == nil || n.override {
		n.override = false
		changed := !n.equal(n.value, n.nextValue)
		n.value = n.nextValue
		n.version = epoch
		n.clearState(DirtyState)
		if changed {
			// consumers only reached as Unknown by an earlier write would
			// otherwise validate against a producer that is already clean
			s.dirtyDownstreams(n)
		}
		return changed
	}

	held := n.state&Check == 0
	n.setState(Check)
	n.recEnd = 0
	n.clearState(OutLink)
	s.pulls++
	n.pullSeq = s.pulls

	n.runCleans()
	restore := s.withReader(n)
	v, err := n.compute()
	restore()

	changed := false
	switch {
	case err != nil:
		s.report(n, err)
		n.recEnd = s.recTail(n)
	case n.state&ScopeAborted != 0:
		// disposed during its own run, its edges are gone already
		n.recEnd = 0
	default:
		s.prune(n)
		changed = !n.equal(n.value, v)
		n.value = v
		n.nextValue = v
	}
	n.version = epoch
	n.clearState(DirtyState)
	if held {
		n.clearState(Check)
	}
	return changed
}

func (n *Node) compute() (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return n.pull()
}

func (n *Node) runCleans() {
	if len(n.cleans) == 0 {
		return
	}
	cleans := n.cleans
	n.cleans = nil

	s := n.sys
	restore := s.withReader(nil)
	defer restore()
	for _, fn := range cleans {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.report(n, fmt.Errorf("clean: %w: %v", ErrPanic, r))
				}
			}()
			fn()
		}()
	}
}

// pullDeep resolves n by walking up towards its roots. Only nodes a write
// reached are entered. On the way back each Dirty node recomputes, and only a
// real change dirties its consumers; an Unknown node whose producers all
// turned out unchanged is simply cleared.
func (n *Node) pullDeep() {
	if n.state&DirtyState == 0 {
		return
	}
	s := n.sys
	s.walk(n, true, walkHooks{
		begin: func(m *Node, via lineID, depth int) step {
			if m.state&Check != 0 || m.state&DirtyState == 0 || m.disabled() {
				return stepSkip
			}
			m.setState(Check)
			return stepDescend
		},
		complete: func(m *Node, via lineID, skipped bool) step {
			if skipped {
				return stepNext
			}
			act := stepNext
			switch {
			case m.state&Dirty != 0 && m.pull == nil:
				if m.pullRecurse(true) {
					s.dirtyDownstreams(m)
				}
			case m.state&Dirty != 0:
				if m.pullRecurse(true) {
					s.dirtyDownstreams(m)
					// the consumer is Dirty now and re-reads the rest itself
					act = stepUp
				}
			default:
				m.version = s.version
			}
			m.clearState(Check | DirtyState)
			return act
		},
	}, nil)
}

func (s *System) dirtyDownstreams(n *Node) {
	for id := n.emitStart; id != 0; id = s.ln(id).nextEmit {
		d := s.ln(id).down
		if d.disabled() {
			continue
		}
		d.clearState(Unknown)
		d.setState(Dirty)
	}
}

// prune drops every edge after n.recEnd once a pull has confirmed its reads.
func (s *System) prune(n *Node) {
	for {
		id := n.recStart
		if n.recEnd != 0 {
			id = s.ln(n.recEnd).nextRec
		}
		if id == 0 {
			return
		}
		producer := s.ln(id).up
		s.unlink(id)
		s.orphaned(producer, n)
	}
}

// orphaned cleans up after producer lost its edge to consumer: a nested scope
// that consumer created is disposed, a computation nobody reads any more is
// collapsed.
func (s *System) orphaned(producer, consumer *Node) {
	if producer.state&IsScope != 0 {
		if producer.scope == consumer {
			s.dispose(producer)
		}
		return
	}
	if producer.emitStart == 0 {
		s.collapse(producer)
	}
}

// collapse unlinks a computation that has no consumers from all of its
// producers, continuing upward through producers left unobserved. Its next
// read recomputes it from scratch.
func (s *System) collapse(n *Node) {
	if n.pull == nil || n.state&Check != 0 {
		return
	}
	for n.recStart != 0 {
		id := n.recStart
		producer := s.ln(id).up
		s.unlink(id)
		s.orphaned(producer, n)
	}
	n.runCleans()
}
