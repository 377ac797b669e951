package signal

// step is what a walk hook asks the walker to do next.
type step uint8

const (
	// returned by begin
	stepDescend step = iota
	stepSkip
	stepYield

	// returned by complete
	stepNext
	stepUp
	stepUnlink
)

type walkHooks struct {
	// begin runs in pre-order. depth is 0 for the root. A stepYield must be
	// returned before the hook changes anything, since begin runs again for
	// the same node when the walk resumes.
	begin func(n *Node, via lineID, depth int) step
	// complete runs in post-order. skipped is true when begin did not
	// descend. stepUnlink removes via after the hook returns.
	complete func(n *Node, via lineID, skipped bool) step
}

// cursor is where a yielded walk stopped. Edges are held by reference so the
// owner can check that none of them was freed before resuming.
type cursor struct {
	root  *Node
	node  *Node
	via   lineRef
	stack []lineRef
}

// walk runs a depth-first traversal from root, following rec lists when up is
// true and emit lists otherwise. It returns nil once the root completes, or a
// cursor when begin yields. Passing that cursor back resumes the walk.
func (s *System) walk(root *Node, up bool, h walkHooks, resume *cursor) *cursor {
	node, via := root, lineID(0)
	var stack []lineID
	if resume != nil {
		node, via = resume.node, resume.via.id
		stack = make([]lineID, len(resume.stack))
		for i, r := range resume.stack {
			stack[i] = r.id
		}
	}

	for {
		st := h.begin(node, via, len(stack))
		if st == stepYield {
			return s.checkpoint(root, node, via, stack)
		}
		stack = append(stack, via)
		if st == stepDescend {
			if first := s.firstLine(node, up); first != 0 {
				via = first
				node = s.far(first, up)
				continue
			}
		}

		skipped := st != stepDescend
		for {
			via = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			var next lineRef
			var parent *Node
			if via != 0 {
				next = s.lines.ref(s.sibling(via, up))
				parent = s.near(via, up)
			}
			viaRef := s.lines.ref(via)

			act := stepNext
			if h.complete != nil {
				act = h.complete(node, via, skipped)
			}
			if len(stack) == 0 {
				return nil
			}
			if act == stepUnlink && s.lines.alive(viaRef) {
				s.unlink(via)
			}
			if act != stepUp && s.lines.alive(next) {
				via = next.id
				node = s.far(via, up)
				break
			}
			node = parent
			skipped = false
		}
	}
}

func (s *System) checkpoint(root, node *Node, via lineID, stack []lineID) *cursor {
	c := &cursor{
		root:  root,
		node:  node,
		via:   s.lines.ref(via),
		stack: make([]lineRef, len(stack)),
	}
	for i, id := range stack {
		c.stack[i] = s.lines.ref(id)
	}
	return c
}

func (s *System) firstLine(n *Node, up bool) lineID {
	if up {
		return n.recStart
	}
	return n.emitStart
}

func (s *System) sibling(id lineID, up bool) lineID {
	if up {
		return s.ln(id).nextRec
	}
	return s.ln(id).nextEmit
}

// far is the node a line leads to in the walk direction.
func (s *System) far(id lineID, up bool) *Node {
	if up {
		return s.ln(id).up
	}
	return s.ln(id).down
}

// near is the node a line was entered from.
func (s *System) near(id lineID, up bool) *Node {
	if up {
		return s.ln(id).down
	}
	return s.ln(id).up
}
