package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineArenaGenerations(t *testing.T) {
	a := newLineArena()
	up, down := &Node{}, &Node{}

	id := a.alloc(up, down)
	require.Equal(t, lineID(1), id)
	r := a.ref(id)
	assert.True(t, a.alive(r))
	assert.Equal(t, 1, a.live())

	a.release(id)
	assert.False(t, a.alive(r))
	assert.Equal(t, 0, a.live())

	// the slot is reused under a new generation
	again := a.alloc(up, down)
	assert.Equal(t, id, again)
	assert.False(t, a.alive(r))
	assert.True(t, a.alive(a.ref(again)))

	assert.False(t, a.alive(lineRef{}))
	assert.False(t, a.alive(lineRef{id: 99}))
}

func testNodes(s *System, names ...string) []*Node {
	nodes := make([]*Node, len(names))
	for i, name := range names {
		nodes[i] = s.newNode(nil, nil, nodeConfig{name: name})
	}
	return nodes
}

func recNames(n *Node) []string {
	var out []string
	for _, up := range n.Upstreams() {
		out = append(out, up.String())
	}
	return out
}

func TestLinkReusesAndInserts(t *testing.T) {
	s := NewSystem()
	ns := testNodes(s, "a", "b", "c", "consumer")
	a, b, c, consumer := ns[0], ns[1], ns[2], ns[3]

	s.link(a, consumer)
	s.link(b, consumer)
	require.Equal(t, []string{"a", "b"}, recNames(consumer))
	require.Equal(t, 2, s.LiveEdges())

	// a second pull that reads a, a, c, b
	consumer.recEnd = 0
	s.link(a, consumer)
	assert.Equal(t, consumer.recStart, consumer.recEnd, "expected edge reused")
	s.link(a, consumer)
	assert.Equal(t, 2, s.LiveEdges(), "confirmed producer not linked twice")
	s.link(c, consumer)
	assert.Equal(t, []string{"a", "c", "b"}, recNames(consumer))
	s.link(b, consumer)
	assert.Equal(t, 3, s.LiveEdges())

	s.prune(consumer)
	assert.Equal(t, []string{"a", "c", "b"}, recNames(consumer))

	// a third pull that only reads c
	consumer.recEnd = 0
	s.link(c, consumer)
	assert.Equal(t, []string{"c", "a", "b"}, recNames(consumer))
	s.prune(consumer)
	assert.Equal(t, []string{"c"}, recNames(consumer))
	assert.Empty(t, a.Downstreams())
	assert.Empty(t, b.Downstreams())
	assert.Equal(t, 1, s.LiveEdges())
}

func TestLinkDedupesByPullStamp(t *testing.T) {
	s := NewSystem()
	ns := testNodes(s, "a", "b", "c", "consumer")
	a, b, c, consumer := ns[0], ns[1], ns[2], ns[3]

	consumer.pullSeq = 5
	s.link(a, consumer)
	s.link(b, consumer)
	s.link(a, consumer)
	assert.Equal(t, []string{"a", "b"}, recNames(consumer))
	assert.Equal(t, uint64(5), a.linkSeq)

	// a nested pull read b in between, so the stamp no longer answers
	b.linkSeq = 6
	s.link(b, consumer)
	assert.Equal(t, 2, s.LiveEdges())

	s.link(c, consumer)
	assert.Equal(t, []string{"a", "b", "c"}, recNames(consumer))
	assert.Equal(t, 3, s.LiveEdges())
}

func TestComputedReadingManySignals(t *testing.T) {
	s := NewSystem()
	sources := make([]*Signal[int], 200)
	for i := range sources {
		sources[i] = New(s, i)
	}
	sum := Computed(s, func() int {
		total := 0
		for _, src := range sources {
			total += src.Get()
		}
		// a second pass only confirms
		for _, src := range sources {
			total += src.Get()
		}
		return total
	})

	assert.Equal(t, 2*199*200/2, sum.Get())
	assert.Len(t, sum.Node().Upstreams(), len(sources))
	assert.Equal(t, len(sources), s.LiveEdges())

	sources[7].Set(1007)
	assert.Equal(t, 2*(199*200/2+1000), sum.Get())
	assert.Equal(t, len(sources), s.LiveEdges())
}

func TestUnlinkKeepsListsConsistent(t *testing.T) {
	s := NewSystem()
	ns := testNodes(s, "p", "x", "y", "z")
	p, x, y, z := ns[0], ns[1], ns[2], ns[3]

	s.link(p, x)
	s.link(p, y)
	s.link(p, z)
	require.Len(t, p.Downstreams(), 3)

	s.unlink(y.recStart)
	assert.Equal(t, []*Node{x, z}, p.Downstreams())
	assert.Zero(t, y.recStart)
	assert.Zero(t, y.recEnd)

	s.unlinkEmit(p.emitStart)
	assert.Empty(t, p.Downstreams())
	assert.Zero(t, p.emitEnd)
	assert.Equal(t, 0, s.LiveEdges())
}

func TestLinkAcrossScopesRecordsOutLink(t *testing.T) {
	s := NewSystem()
	outside := s.newNode(nil, nil, nodeConfig{name: "outside"})

	scope := s.newNode(nil, nil, nodeConfig{name: "scope"})
	scope.state = IsScope | ScopeReady
	restore := s.withReader(scope)
	inside := s.newNode(nil, nil, nodeConfig{name: "inside"})
	owned := s.newNode(nil, nil, nodeConfig{name: "owned"})
	restore()

	s.link(owned, inside)
	s.link(outside, inside)
	assert.Equal(t, []*Node{outside}, scope.OutLinks())

	s.unlink(inside.recEnd)
	assert.Empty(t, scope.OutLinks())
	assert.Equal(t, []*Node{owned}, inside.Upstreams())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Clean", State(0).String())
	assert.Equal(t, "Dirty|IsScope", (Dirty | IsScope).String())
	assert.True(t, DirtyState.Has(Unknown))
	assert.False(t, DirtyState.Has(Check))
}
