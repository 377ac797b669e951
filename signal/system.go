package signal

import (
	"log/slog"
	"time"

	"github.com/delaneyj/linesignal/schedule"
)

// OnErrorFunc receives every error raised by a computation. The node keeps
// its previous value.
type OnErrorFunc func(n *Node, err error)

// System owns one signal graph: the epoch counter, the node being computed,
// the edge arena, the schedulers and the disposal queue. A System must only be
// used from one goroutine at a time.
type System struct {
	version    uint64
	nextID     uint64
	disposeSeq uint64
	pulls      uint64

	pulling *Node
	root    *Node
	lines   lineArena

	schedulers map[string]ScheduleHandler
	host       schedule.Host
	idle       *schedule.TaskQueue[*disposal]

	logger        *slog.Logger
	onError       OnErrorFunc
	onDisposeDone func(n *Node)
	now           func() time.Time
	sliceBudget   time.Duration
}

type SystemOption func(*System)

func WithLogger(logger *slog.Logger) SystemOption {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithOnError(onError OnErrorFunc) SystemOption {
	return func(s *System) {
		s.onError = onError
	}
}

// WithHost sets the scheduling primitives. Missing ones fall back as
// described by schedule.Host.Resolve.
func WithHost(host schedule.Host) SystemOption {
	return func(s *System) {
		s.host = host
	}
}

// WithClock replaces time.Now for disposal time slicing.
func WithClock(now func() time.Time) SystemOption {
	return func(s *System) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSliceBudget bounds how long one disposal slice may run before the rest
// is deferred to the idle queue. The default is 5ms.
func WithSliceBudget(d time.Duration) SystemOption {
	return func(s *System) {
		s.sliceBudget = d
	}
}

// WithOnDisposeDone is called when a disposal that had to be deferred to the
// idle queue finishes.
func WithOnDisposeDone(fn func(n *Node)) SystemOption {
	return func(s *System) {
		s.onDisposeDone = fn
	}
}

func NewSystem(opts ...SystemOption) *System {
	s := &System{
		version:     1,
		lines:       newLineArena(),
		schedulers:  map[string]ScheduleHandler{},
		logger:      slog.Default(),
		now:         time.Now,
		sliceBudget: 5 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.host = s.host.Resolve()

	s.idle = schedule.NewTaskQueue(s.host.Idle, func(a, b *disposal) bool {
		return a.seq < b.seq
	})
	s.idle.OnTaskDone = s.disposeDone
	s.registerDefaultSchedulers()

	s.root = s.newNode(nil, nil, nodeConfig{name: "root"})
	s.root.state = IsScope | ScopeReady
	return s
}

// Root is the scope that owns everything created outside any computation.
func (s *System) Root() *Node {
	return s.root
}

// Epoch returns the write counter.
func (s *System) Epoch() uint64 {
	return s.version
}

// LiveEdges returns the number of edges currently in the graph.
func (s *System) LiveEdges() int {
	return s.lines.live()
}

// PendingDisposals returns how many disposals wait on the idle queue.
func (s *System) PendingDisposals() int {
	return s.idle.Len()
}

func (s *System) newNode(pull func() (any, error), value any, cfg nodeConfig) *Node {
	s.nextID++
	n := &Node{
		sys:       s,
		id:        s.nextID,
		name:      cfg.name,
		scope:     s.pulling,
		pull:      pull,
		value:     value,
		nextValue: value,
		scheduler: cfg.scheduler,
		equal:     cfg.equal,
	}
	if n.scope == nil {
		n.scope = s.root
	}
	if n.scheduler == "" {
		n.scheduler = SchedSync
	}
	if n.equal == nil {
		n.equal = defaultEqual
	}
	return n
}

// withReader makes n the node that new reads are attributed to. The returned
// func restores the previous reader.
func (s *System) withReader(n *Node) func() {
	prev := s.pulling
	s.pulling = n
	return func() {
		s.pulling = prev
	}
}

func (s *System) report(n *Node, err error) {
	s.logger.Error("signal computation failed", "node", n.String(), "id", n.id, "err", err)
	if s.onError != nil {
		s.onError(n, err)
	}
}
