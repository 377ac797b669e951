// Package inspect takes read-only pictures of a signal graph: edge sets for
// assertions, a topology fingerprint and Graphviz output.
package inspect

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/linesignal/signal"
)

// Edge is a directed pair of node labels.
type Edge struct {
	From string
	To   string
}

func (e Edge) String() string {
	return e.From + " -> " + e.To
}

type NodeInfo struct {
	ID      uint64
	Label   string
	State   string
	Owner   string
	IsScope bool
}

// Snapshot is every node reachable from a set of seeds through dependency
// edges in either direction.
type Snapshot struct {
	Title  string
	Nodes  []NodeInfo
	Edges  mapset.Set[Edge]
	Owners mapset.Set[Edge]
}

// Take walks the graph around seeds. The system root is left out.
func Take(title string, seeds ...*signal.Node) *Snapshot {
	snap := &Snapshot{
		Title:  title,
		Edges:  mapset.NewThreadUnsafeSet[Edge](),
		Owners: mapset.NewThreadUnsafeSet[Edge](),
	}

	visited := mapset.NewThreadUnsafeSet[*signal.Node]()
	queue := make([]*signal.Node, 0, len(seeds))
	for _, n := range seeds {
		if n != nil && visited.Add(n) {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for _, up := range n.Upstreams() {
			snap.Edges.Add(Edge{From: up.String(), To: n.String()})
			if visited.Add(up) {
				queue = append(queue, up)
			}
		}
		for _, down := range n.Downstreams() {
			snap.Edges.Add(Edge{From: n.String(), To: down.String()})
			if visited.Add(down) {
				queue = append(queue, down)
			}
		}
	}

	visited.Each(func(n *signal.Node) bool {
		info := NodeInfo{
			ID:      n.ID(),
			Label:   n.String(),
			State:   n.State().String(),
			IsScope: n.State().Has(signal.IsScope),
		}
		if owner := n.Scope(); owner != nil && owner.Scope() != nil {
			info.Owner = owner.String()
			snap.Owners.Add(Edge{From: info.Label, To: info.Owner})
		}
		snap.Nodes = append(snap.Nodes, info)
		return false
	})
	sort.Slice(snap.Nodes, func(i, j int) bool {
		return snap.Nodes[i].ID < snap.Nodes[j].ID
	})
	return snap
}

// SortedEdges returns the dependency edges ordered by label.
func (s *Snapshot) SortedEdges() []Edge {
	return sortedEdges(s.Edges)
}

// SortedOwners returns node -> owner pairs ordered by label.
func (s *Snapshot) SortedOwners() []Edge {
	return sortedEdges(s.Owners)
}

func sortedEdges(set mapset.Set[Edge]) []Edge {
	edges := set.ToSlice()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Edges lists the dependency edges around seeds as sorted "from -> to"
// strings.
func Edges(seeds ...*signal.Node) []string {
	edges := Take("", seeds...).SortedEdges()
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.String()
	}
	return out
}
