package mailbox

import (
	"time"

	"github.com/Workiva/go-datastructures/queue"
)

type backlog interface {
	Put(item any) error
	Poll(timeout time.Duration) (any, error)
	Len() int
	Dispose()
}

type unbounded struct {
	q *queue.Queue
}

func newUnbounded() *unbounded {
	return &unbounded{q: queue.New(16)}
}

func (u *unbounded) Put(item any) error {
	return u.q.Put(item)
}

func (u *unbounded) Poll(timeout time.Duration) (any, error) {
	items, err := u.q.Poll(1, timeout)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, queue.ErrTimeout
	}
	return items[0], nil
}

func (u *unbounded) Len() int {
	return int(u.q.Len())
}

func (u *unbounded) Dispose() {
	u.q.Dispose()
}

type bounded struct {
	rb *queue.RingBuffer
}

func newBounded(capacity uint64) *bounded {
	return &bounded{rb: queue.NewRingBuffer(capacity)}
}

func (b *bounded) Put(item any) error {
	return b.rb.Put(item)
}

func (b *bounded) Poll(timeout time.Duration) (any, error) {
	return b.rb.Poll(timeout)
}

func (b *bounded) Len() int {
	return int(b.rb.Len())
}

func (b *bounded) Dispose() {
	b.rb.Dispose()
}
