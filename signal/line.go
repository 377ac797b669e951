package signal

// lineID is a handle into the system's line arena. Zero means no line.
type lineID uint32

// line is a producer -> consumer edge. It sits in the producer's emit list
// (insertion order) and the consumer's rec list (read order) at the same time,
// and in the outLink list of the consumer's scope when it crosses ownership.
type line struct {
	gen uint32

	up   *Node
	down *Node

	prevEmit, nextEmit lineID
	prevRec, nextRec   lineID

	outOwner         *Node
	prevOut, nextOut lineID
}

// lineRef pins a handle to one lifetime of its slot.
type lineRef struct {
	id  lineID
	gen uint32
}

type lineArena struct {
	lines []line
	free  []lineID
}

func newLineArena() lineArena {
	// slot 0 is the nil handle
	return lineArena{lines: make([]line, 1, 64)}
}

// at returns the slot for id. The pointer is invalidated by the next alloc.
func (a *lineArena) at(id lineID) *line {
	return &a.lines[id]
}

func (a *lineArena) alloc(up, down *Node) lineID {
	var id lineID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.lines = append(a.lines, line{})
		id = lineID(len(a.lines) - 1)
	}
	l := &a.lines[id]
	l.up, l.down = up, down
	return id
}

func (a *lineArena) release(id lineID) {
	gen := a.lines[id].gen + 1
	a.lines[id] = line{gen: gen}
	a.free = append(a.free, id)
}

func (a *lineArena) ref(id lineID) lineRef {
	if id == 0 {
		return lineRef{}
	}
	return lineRef{id: id, gen: a.lines[id].gen}
}

func (a *lineArena) alive(r lineRef) bool {
	if r.id == 0 || int(r.id) >= len(a.lines) {
		return false
	}
	l := &a.lines[r.id]
	return l.gen == r.gen && l.up != nil
}

func (a *lineArena) live() int {
	return len(a.lines) - 1 - len(a.free)
}

func (s *System) ln(id lineID) *line {
	return s.lines.at(id)
}

// link records that consumer read producer during its current pull.
//
// The consumer's recEnd is the last edge confirmed so far. The next expected
// edge is reused when it comes from the same producer, otherwise a new edge is
// inserted in front of it and the stale one is pruned when the pull ends.
func (s *System) link(producer, consumer *Node) {
	prev := consumer.recEnd
	next := consumer.recStart
	if prev != 0 {
		next = s.ln(prev).nextRec
	}
	seq := consumer.pullSeq
	if next != 0 && s.ln(next).up == producer {
		consumer.recEnd = next
		producer.linkSeq = seq
		return
	}
	switch {
	case seq != 0 && producer.linkSeq == seq:
		return
	case prev == 0:
	case seq != 0 && producer.linkSeq < seq:
		// not confirmed during this pull
	default:
		// unstamped, or a nested pull stamped the producer since
		for id := consumer.recStart; id != 0; id = s.ln(id).nextRec {
			if s.ln(id).up == producer {
				return
			}
			if id == prev {
				break
			}
		}
	}

	producer.linkSeq = seq
	id := s.lines.alloc(producer, consumer)
	l := s.ln(id)

	l.prevEmit = producer.emitEnd
	if producer.emitEnd != 0 {
		s.ln(producer.emitEnd).nextEmit = id
	} else {
		producer.emitStart = id
	}
	producer.emitEnd = id

	l.prevRec, l.nextRec = prev, next
	if prev != 0 {
		s.ln(prev).nextRec = id
	} else {
		consumer.recStart = id
	}
	if next != 0 {
		s.ln(next).prevRec = id
	}
	consumer.recEnd = id

	if owner := consumer.scope; owner != nil && !producer.ownedBy(owner) {
		s.addOutLink(owner, id)
	}
}

func (s *System) addOutLink(owner *Node, id lineID) {
	l := s.ln(id)
	l.outOwner = owner
	l.prevOut = owner.outEnd
	if owner.outEnd != 0 {
		s.ln(owner.outEnd).nextOut = id
	} else {
		owner.outStart = id
	}
	owner.outEnd = id
}

// unlink removes the edge from every list it belongs to and frees its slot.
func (s *System) unlink(id lineID) {
	l := s.ln(id)
	up, down := l.up, l.down

	if l.prevEmit != 0 {
		s.ln(l.prevEmit).nextEmit = l.nextEmit
	} else {
		up.emitStart = l.nextEmit
	}
	if l.nextEmit != 0 {
		s.ln(l.nextEmit).prevEmit = l.prevEmit
	} else {
		up.emitEnd = l.prevEmit
	}

	if l.prevRec != 0 {
		s.ln(l.prevRec).nextRec = l.nextRec
	} else {
		down.recStart = l.nextRec
	}
	if l.nextRec != 0 {
		s.ln(l.nextRec).prevRec = l.prevRec
	}
	if down.recEnd == id {
		down.recEnd = l.prevRec
	}

	if owner := l.outOwner; owner != nil {
		if l.prevOut != 0 {
			s.ln(l.prevOut).nextOut = l.nextOut
		} else {
			owner.outStart = l.nextOut
		}
		if l.nextOut != 0 {
			s.ln(l.nextOut).prevOut = l.prevOut
		} else {
			owner.outEnd = l.prevOut
		}
	}

	s.lines.release(id)
}

// unlinkEmit removes id and every edge after it in its producer's emit list.
func (s *System) unlinkEmit(id lineID) {
	for id != 0 {
		next := s.ln(id).nextEmit
		s.unlink(id)
		id = next
	}
}

// recTail returns the last edge of n's rec list.
func (s *System) recTail(n *Node) lineID {
	id := n.recEnd
	if id == 0 {
		id = n.recStart
	}
	for id != 0 && s.ln(id).nextRec != 0 {
		id = s.ln(id).nextRec
	}
	return id
}
