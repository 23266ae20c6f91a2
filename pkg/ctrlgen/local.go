package ctrlgen

import (
	"context"
	"sync"
)

// Local is a single-slot return-value cell for in-process use. Sending
// never fails and replaces any previous value; Recv never blocks.
type Local[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	closed bool
}

// Init resets the cell and returns its sender.
func (l *Local[T]) Init() Sender[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	l.value, l.set, l.closed = zero, false, false
	return localSender[T]{cell: l}
}

// Recv returns the stored value, ErrNotReady when nothing was sent yet, or
// ErrEmpty when the sender was closed without a value.
func (l *Local[T]) Recv(_ context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	switch {
	case l.set:
		return l.value, nil
	case l.closed:
		return zero, ErrEmpty
	default:
		return zero, ErrNotReady
	}
}

// Get returns the stored value and whether one was sent.
func (l *Local[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.set
}

type localSender[T any] struct {
	cell *Local[T]
}

func (s localSender[T]) Send(v T) error {
	s.cell.mu.Lock()
	defer s.cell.mu.Unlock()
	s.cell.value, s.cell.set = v, true
	return nil
}

func (s localSender[T]) Close() {
	s.cell.mu.Lock()
	defer s.cell.mu.Unlock()
	s.cell.closed = true
}
