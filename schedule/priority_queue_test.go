package schedule_test

import (
	"testing"

	"github.com/delaneyj/linesignal/schedule"
	"github.com/stretchr/testify/assert"
)

func TestPriorityQueueOrder(t *testing.T) {
	q := schedule.NewPriorityQueue(func(a, b int) bool { return a < b })

	_, ok := q.Poll()
	assert.False(t, ok)

	q.Add(5, 1, 4, 2, 3)
	assert.Equal(t, 5, q.Size())

	head, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, head)

	var out []int
	for {
		x, ok := q.Poll()
		if !ok {
			break
		}
		out = append(out, x)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, out)
	assert.Zero(t, q.Size())
}

func TestPriorityQueueInterleaved(t *testing.T) {
	type job struct {
		name string
		seq  int
	}
	q := schedule.NewPriorityQueue(func(a, b job) bool { return a.seq < b.seq })

	q.Add(job{"c", 3}, job{"a", 1})
	x, _ := q.Poll()
	assert.Equal(t, "a", x.name)

	q.Add(job{"b", 2})
	x, _ = q.Poll()
	assert.Equal(t, "b", x.name)
	x, _ = q.Poll()
	assert.Equal(t, "c", x.name)
}
