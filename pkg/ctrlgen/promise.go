package ctrlgen

import (
	"context"
	"fmt"
	"sync"
)

type promiseState int

const (
	promisePending promiseState = iota
	promiseReady
	promiseEmpty
	promiseCanceled
)

// String returns the string representation of the state
func (s promiseState) String() string {
	switch s {
	case promisePending:
		return "pending"
	case promiseReady:
		return "ready"
	case promiseEmpty:
		return "empty"
	case promiseCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Promise is a one-shot return-value channel. Recv blocks until the value
// arrives, the sender is closed, or the context is done.
type Promise[T any] struct {
	mu    sync.Mutex
	done  chan struct{}
	value T
	state promiseState
}

// Init arms the promise and returns its sender.
func (p *Promise[T]) Init() Sender[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero T
	p.value = zero
	p.state = promisePending
	p.done = make(chan struct{})
	return &promiseSender[T]{promise: p, done: p.done}
}

// Recv waits for the value.
func (p *Promise[T]) Recv(ctx context.Context) (T, error) {
	var zero T

	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return zero, ErrEmpty
	}

	select {
	case <-done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == promiseReady {
		return p.value, nil
	}
	return zero, ErrEmpty
}

// Get returns the value without blocking.
func (p *Promise[T]) Get() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.state == promiseReady
}

// Done is closed once the promise is resolved, emptied or canceled.
func (p *Promise[T]) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Cancel abandons the promise; a later Send reports ErrSendFailed.
func (p *Promise[T]) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil && p.state == promisePending {
		p.state = promiseCanceled
		close(p.done)
	}
}

type promiseSender[T any] struct {
	promise *Promise[T]
	done    chan struct{}
}

func (s *promiseSender[T]) Send(v T) error {
	p := s.promise
	p.mu.Lock()
	defer p.mu.Unlock()

	// a re-armed promise belongs to a newer sender
	if p.done != s.done {
		return fmt.Errorf("%w: promise was re-initialized", ErrSendFailed)
	}
	if p.state != promisePending {
		return fmt.Errorf("%w: promise is %s", ErrSendFailed, p.state)
	}
	p.value = v
	p.state = promiseReady
	close(p.done)
	return nil
}

func (s *promiseSender[T]) Close() {
	p := s.promise
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == s.done && p.state == promisePending {
		p.state = promiseEmpty
		close(p.done)
	}
}
