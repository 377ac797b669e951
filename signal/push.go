package signal

// set stores v as the pending value and marks everything downstream.
func (n *Node) set(v any) {
	if n.disabled() || n.equal(n.nextValue, v) {
		return
	}
	n.nextValue = v
	if n.pull != nil {
		n.override = true
	}
	n.sys.version++
	n.sys.markDeep(n)
}

// bucket holds the effects one scheduler has to run, in marking order.
type bucket struct {
	scheduler string
	effects   []*Node
}

type buckets []bucket

func (b *buckets) add(n *Node) {
	for i := range *b {
		if (*b)[i].scheduler == n.scheduler {
			(*b)[i].effects = append((*b)[i].effects, n)
			return
		}
	}
	*b = append(*b, bucket{scheduler: n.scheduler, effects: []*Node{n}})
}

// markDeep walks downstream from a written node. Direct consumers become
// Dirty and everything further away Unknown; nodes already marked, being
// checked or disposed end the branch. Effects with no other observer than
// their scope are handed to their scheduler once the walk is over.
func (s *System) markDeep(root *Node) {
	var pending buckets
	s.walk(root, false, walkHooks{
		begin: func(n *Node, via lineID, depth int) step {
			if depth == 0 {
				if n.state&Check == 0 {
					n.setState(Dirty)
				}
				return stepDescend
			}
			if n.state&(Check|DirtyState) != 0 || n.disabled() {
				return stepSkip
			}
			if depth == 1 {
				n.setState(Dirty)
			} else {
				n.setState(Unknown)
			}
			if n.effect && n.leaf() {
				pending.add(n)
			}
			return stepDescend
		},
	}, nil)

	for _, b := range pending {
		s.dispatch(b.scheduler, b.effects)
	}
}
