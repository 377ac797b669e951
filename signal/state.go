package signal

import (
	"fmt"
	"strings"
)

// State is the flag set carried by every node.
type State uint16

const (
	// Unknown means an upstream node changed and this one may be stale.
	Unknown State = 1 << iota
	// Dirty means this node is known to be stale and must recompute.
	Dirty
	// Check is held by the traversal currently visiting the node.
	Check
	IsScope
	// ScopeReady marks a scope body that already ran.
	ScopeReady
	ScopeAbort
	ScopeAborted
	// OutLink means the node reads, directly or through its producers,
	// something owned outside its own scope.
	OutLink
	// LinkScopeOnly is set while a watcher callback runs: reads inside it only
	// attach nested scopes.
	LinkScopeOnly

	DirtyState    = Unknown | Dirty
	ScopeExecuted = ScopeReady | ScopeAbort | ScopeAborted
)

var stateNames = []string{
	"Unknown",
	"Dirty",
	"Check",
	"IsScope",
	"ScopeReady",
	"ScopeAbort",
	"ScopeAborted",
	"OutLink",
	"LinkScopeOnly",
}

func (s State) Has(f State) bool {
	return s&f != 0
}

func (s State) String() string {
	if s == 0 {
		return "Clean"
	}
	var parts []string
	for i, name := range stateNames {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

func (n *Node) setState(f State) {
	if debugTransitions {
		validateTransition(n, f)
	}
	n.state |= f
}

func (n *Node) clearState(f State) {
	n.state &^= f
}

func validateTransition(n *Node, add State) {
	next := n.state | add
	switch {
	case add&DirtyState != 0 && n.state&ScopeAborted != 0:
		panic(fmt.Sprintf("signal: %s marked %s after disposal", n, add&DirtyState))
	case add&ScopeAborted != 0 && next&ScopeAbort == 0:
		panic(fmt.Sprintf("signal: %s aborted without an abort request", n))
	case add&LinkScopeOnly != 0 && n.state&IsScope == 0:
		panic(fmt.Sprintf("signal: %s is not a scope and cannot link scopes only", n))
	}
}
