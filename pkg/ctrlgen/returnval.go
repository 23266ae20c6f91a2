// Package ctrlgen is the runtime support library for code produced by the
// ctrlgen generator: the message-sender contract, the return-value channel
// contract with its Local and Promise flavors, and dispatch helpers.
package ctrlgen

import (
	"context"
	"errors"
)

var (
	// ErrSendFailed is reported when a return value cannot be delivered to
	// its receiver.
	ErrSendFailed = errors.New("ctrlgen: failed to send return value")

	// ErrNotReady is returned by non-blocking receivers that have no value yet.
	ErrNotReady = errors.New("ctrlgen: return value not ready")

	// ErrEmpty is returned when the sender was dropped without a value.
	ErrEmpty = errors.New("ctrlgen: sender dropped without a value")

	// ErrNotDispatchable is returned when a message has no dispatch entry
	// point for the given service.
	ErrNotDispatchable = errors.New("ctrlgen: message cannot be dispatched")

	// ErrClosed is returned by transports that no longer accept messages.
	ErrClosed = errors.New("ctrlgen: transport closed")
)

// Sender is the half of a return-value channel held by a message.
type Sender[T any] interface {
	// Send delivers v. Failures wrap ErrSendFailed.
	Send(v T) error
	// Close drops the sender without a value.
	Close()
}

// Receiver is the half of a return-value channel handed back to a proxy caller.
type Receiver[T any] interface {
	Recv(ctx context.Context) (T, error)
}

// Returnval is implemented by return-value channel flavors. Init prepares
// the receiver and returns its paired sender.
type Returnval[T any] interface {
	Receiver[T]
	Init() Sender[T]
}

// Create returns a fresh sender/receiver pair of flavor R.
//
//	tx, rx := ctrlgen.Create[int, ctrlgen.Local[int]]()
func Create[T, R any, P interface {
	*R
	Returnval[T]
}]() (Sender[T], P) {
	rx := P(new(R))
	return rx.Init(), rx
}

// Send delivers v through tx. A nil sender discards the value.
func Send[T any](tx Sender[T], v T) error {
	if tx == nil {
		return nil
	}
	return tx.Send(v)
}

// Discard closes tx if it is set.
func Discard[T any](tx Sender[T]) {
	if tx != nil {
		tx.Close()
	}
}

// Owned returns a copy of the value p points to. A nil p yields the zero
// value, so a method reached through a to_owned argument gets a pointer to
// a zero T where a direct call would have passed nil.
func Owned[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
