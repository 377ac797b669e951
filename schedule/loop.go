package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Loop is a cooperative host for programs that have no event loop of their
// own. Callbacks may be posted from any goroutine, but they only ever run on
// the goroutine calling Run or RunUntilIdle, so the signal graph stays single
// threaded.
//
// Ordering follows the browser event loop. Microtasks drain after every other
// callback and macrotasks run one at a time. Frame callbacks run as a batch,
// idle callbacks only when nothing else is pending.
type Loop struct {
	mu     sync.Mutex
	micro  []func()
	macro  []func()
	frame  []func()
	idle   []func()
	wake   chan struct{}
	ran    int
	logger *slog.Logger

	frameInterval time.Duration
}

type LoopOption func(*Loop)

// WithFrameInterval sets how often Run flushes frame callbacks.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:          make(chan struct{}, 1),
		logger:        slog.Default(),
		frameInterval: 16 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Host exposes the loop's queues as engine scheduling primitives.
func (l *Loop) Host() Host {
	return Host{
		Micro: l.QueueMicrotask,
		Macro: l.QueueMacrotask,
		Frame: l.RequestFrame,
		Idle:  l.RequestIdle,
	}
}

func (l *Loop) QueueMicrotask(fn func()) { l.enqueue(&l.micro, fn) }
func (l *Loop) QueueMacrotask(fn func()) { l.enqueue(&l.macro, fn) }
func (l *Loop) RequestFrame(fn func())   { l.enqueue(&l.frame, fn) }
func (l *Loop) RequestIdle(fn func())    { l.enqueue(&l.idle, fn) }

func (l *Loop) enqueue(q *[]func(), fn func()) {
	l.mu.Lock()
	*q = append(*q, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued callbacks across all queues.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.micro) + len(l.macro) + len(l.frame) + len(l.idle)
}

// RunUntilIdle runs callbacks until every queue is empty and returns how many
// ran. Callbacks scheduled while draining run in the same call.
func (l *Loop) RunUntilIdle() int {
	l.ran = 0
	for {
		l.drainMicro()
		if l.runOne(&l.macro) {
			continue
		}
		if l.runFrame() {
			continue
		}
		if l.runOne(&l.idle) {
			continue
		}
		return l.ran
	}
}

// Run drives the loop until ctx is done. Frame callbacks are flushed on a
// ticker; idle callbacks run whenever no macrotask is waiting.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	l.logger.Debug("loop started", "frameInterval", l.frameInterval)
	defer l.logger.Debug("loop stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.drainMicro()
		if l.runOne(&l.macro) {
			continue
		}

		select {
		case <-ticker.C:
			l.runFrame()
			continue
		default:
		}

		if l.runOne(&l.idle) {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-ticker.C:
			l.runFrame()
		}
	}
}

func (l *Loop) take(q *[]func(), all bool) []func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(*q) == 0 {
		return nil
	}
	if all {
		batch := *q
		*q = nil
		return batch
	}
	fn := (*q)[0]
	(*q)[0] = nil
	*q = (*q)[1:]
	return []func(){fn}
}

func (l *Loop) drainMicro() {
	for {
		batch := l.take(&l.micro, true)
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			l.call(fn)
		}
	}
}

func (l *Loop) runOne(q *[]func()) bool {
	batch := l.take(q, false)
	if len(batch) == 0 {
		return false
	}
	l.call(batch[0])
	l.drainMicro()
	return true
}

func (l *Loop) runFrame() bool {
	batch := l.take(&l.frame, true)
	if len(batch) == 0 {
		return false
	}
	for _, fn := range batch {
		l.call(fn)
	}
	l.drainMicro()
	return true
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "err", fmt.Errorf("%v", r))
		}
	}()
	l.ran++
	fn()
}
