package schedule

// Task is a unit of cooperative work. Run reports whether the task still has
// work left, in which case it stays at the head of its queue and the queue
// yields back to the host before running it again.
type Task interface {
	Run() (remain bool)
}

// TaskQueue runs tasks in urgency order from a single host callback. The
// callback is armed lazily by the first Push and stays armed until the queue
// drains.
type TaskQueue[T Task] struct {
	arm   Callback
	queue *PriorityQueue[T]
	armed bool

	// OnTaskDone is called after a task finishes all of its work.
	OnTaskDone func(t T)
	// OnDrain is called when the last queued task has finished.
	OnDrain func()
}

func NewTaskQueue[T Task](arm Callback, aIsUrgent func(a, b T) bool) *TaskQueue[T] {
	if arm == nil {
		arm = Immediate
	}
	return &TaskQueue[T]{
		arm:   arm,
		queue: NewPriorityQueue(aIsUrgent),
	}
}

func (q *TaskQueue[T]) Push(t T) {
	q.queue.Add(t)
	if q.armed {
		return
	}
	q.armed = true
	q.arm(q.flush)
}

// Len returns the number of tasks that have not finished.
func (q *TaskQueue[T]) Len() int {
	return q.queue.Size()
}

func (q *TaskQueue[T]) flush() {
	ok := false
	defer func() {
		if ok {
			return
		}
		// a task panicked; it is dropped and the rest get a fresh callback
		q.armed = q.queue.Size() > 0
		if q.armed {
			q.arm(q.flush)
		}
	}()

	for {
		t, more := q.queue.Poll()
		if !more {
			ok = true
			q.armed = false
			if q.OnDrain != nil {
				q.OnDrain()
			}
			return
		}
		if t.Run() {
			// keeps its urgency key, so it is the head again next time
			q.queue.Add(t)
			ok = true
			q.arm(q.flush)
			return
		}
		if q.OnTaskDone != nil {
			q.OnTaskDone(t)
		}
	}
}
