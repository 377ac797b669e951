package signal

import "strconv"

// Node is a vertex of the dependency graph: a plain value cell, a computed
// value, an effect or a scope. Nodes are created through the typed API and
// are only ever touched from the goroutine that owns their System.
type Node struct {
	sys  *System
	id   uint64
	name string

	// version is the epoch at which value was last validated.
	version uint64
	state   State
	// scope owns this node. It is the computation that was running when the
	// node was created, or the system root.
	scope *Node

	recStart, recEnd   lineID
	emitStart, emitEnd lineID
	outStart, outEnd   lineID

	pull      func() (any, error)
	value     any
	nextValue any
	// override is set when a computed node is written. The next read takes
	// the written value instead of running pull, even if a producer changed
	// in between.
	override bool
	cleans   []func()

	// pullSeq numbers the node's latest pull; linkSeq is the latest pull
	// that confirmed the node as a producer.
	pullSeq, linkSeq uint64

	scheduler string
	effect    bool
	equal     func(a, b any) bool
}

func defaultEqual(a, b any) bool {
	return a == b
}

func (n *Node) ID() uint64 {
	return n.id
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) String() string {
	if n.name != "" {
		return n.name
	}
	return "#" + strconv.FormatUint(n.id, 10)
}

func (n *Node) State() State {
	return n.state
}

// Scope returns the owning scope, or nil for the system root.
func (n *Node) Scope() *Node {
	return n.scope
}

func (n *Node) Version() uint64 {
	return n.version
}

// Value returns the cached value without resolving or tracking anything.
func (n *Node) Value() any {
	return n.value
}

// Read resolves the node and, inside a computation, records the dependency.
func (n *Node) Read() any {
	return n.get(true)
}

// RunIfDirty resolves the node when a write has reached it. Schedulers call it
// for every effect in their bucket.
func (n *Node) RunIfDirty() {
	if n.state&DirtyState != 0 {
		n.get(false)
	}
}

// Upstreams lists the producers in read order.
func (n *Node) Upstreams() []*Node {
	var out []*Node
	for id := n.recStart; id != 0; id = n.sys.ln(id).nextRec {
		out = append(out, n.sys.ln(id).up)
	}
	return out
}

// Downstreams lists the consumers in link order.
func (n *Node) Downstreams() []*Node {
	var out []*Node
	for id := n.emitStart; id != 0; id = n.sys.ln(id).nextEmit {
		out = append(out, n.sys.ln(id).down)
	}
	return out
}

// OutLinks lists the producers of the cross-scope edges this scope severs on
// disposal.
func (n *Node) OutLinks() []*Node {
	var out []*Node
	for id := n.outStart; id != 0; id = n.sys.ln(id).nextOut {
		out = append(out, n.sys.ln(id).up)
	}
	return out
}

// ownedBy reports whether owner is n or one of n's scopes.
func (n *Node) ownedBy(owner *Node) bool {
	for o := n; o != nil; o = o.scope {
		if o == owner {
			return true
		}
	}
	return false
}

// disabled reports whether reads and writes on n short-circuit: a scope body
// that already ran, or any node whose scope chain is being disposed.
func (n *Node) disabled() bool {
	if n.state&IsScope != 0 && n.state&ScopeExecuted != 0 {
		return true
	}
	for o := n.scope; o != nil; o = o.scope {
		if o.state&ScopeAbort != 0 {
			return true
		}
	}
	return false
}

// leaf reports whether nothing but n's own scope observes it.
func (n *Node) leaf() bool {
	if n.emitStart == 0 {
		return true
	}
	l := n.sys.ln(n.emitStart)
	return l.nextEmit == 0 && l.down == n.scope
}
