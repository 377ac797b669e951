package signal

// Option configures a node at creation.
type Option func(*nodeConfig)

type nodeConfig struct {
	name      string
	scheduler string
	equal     func(a, b any) bool
	immediate bool
}

func configure(opts []Option) nodeConfig {
	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithName labels the node for logs and graph dumps.
func WithName(name string) Option {
	return func(c *nodeConfig) {
		c.name = name
	}
}

// WithScheduler picks the domain an effect runs in. The default is SchedSync.
func WithScheduler(name string) Option {
	return func(c *nodeConfig) {
		c.scheduler = name
	}
}

// WithEqual replaces == as the change test for a signal's values.
func WithEqual[T any](eq func(a, b T) bool) Option {
	return func(c *nodeConfig) {
		c.equal = func(a, b any) bool {
			return eq(as[T](a), as[T](b))
		}
	}
}

// WithImmediate makes EffectOn run its callback once at creation.
func WithImmediate(immediate bool) Option {
	return func(c *nodeConfig) {
		c.immediate = immediate
	}
}

// Source is anything that exposes a graph node; every Signal is one.
type Source interface {
	Node() *Node
}

// Signal is a typed handle on a value cell or a computed value.
type Signal[T comparable] struct {
	n *Node
}

// New creates a value cell.
func New[T comparable](sys *System, value T, opts ...Option) *Signal[T] {
	return &Signal[T]{n: sys.newNode(nil, value, configure(opts))}
}

// Computed creates a lazily evaluated value derived from whatever fn reads.
func Computed[T comparable](sys *System, fn func() T, opts ...Option) *Signal[T] {
	return ComputedErr(sys, func() (T, error) {
		return fn(), nil
	}, opts...)
}

// ComputedErr is Computed for computations that can fail. On error the
// previous value is kept and the error goes to the system's OnErrorFunc.
func ComputedErr[T comparable](sys *System, fn func() (T, error), opts ...Option) *Signal[T] {
	var zero T
	pull := func() (any, error) {
		return fn()
	}
	return &Signal[T]{n: sys.newNode(pull, zero, configure(opts))}
}

// Get resolves the value and records the read in the running computation.
func (s *Signal[T]) Get() T {
	return as[T](s.n.get(true))
}

// Peek returns the cached value without resolving or tracking.
func (s *Signal[T]) Peek() T {
	return as[T](s.n.value)
}

// Set writes the value. Writing a computed holds the written value until one
// of its producers changes.
func (s *Signal[T]) Set(v T) {
	s.n.set(v)
}

func (s *Signal[T]) Node() *Node {
	return s.n
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
