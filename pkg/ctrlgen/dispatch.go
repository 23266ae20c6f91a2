package ctrlgen

import (
	"context"
	"fmt"
)

// CallMut is implemented by synchronous message types of service S.
type CallMut[S any] interface {
	CallMut(s *S) error
}

// CallMutAsync is implemented by message types of a service with at least
// one context-taking method.
type CallMutAsync[S any] interface {
	CallMutAsync(ctx context.Context, s *S) error
}

// CallMutWithCtx is implemented by synchronous message types generated with
// a context parameter of type C.
type CallMutWithCtx[S, C any] interface {
	CallMutWithCtx(s *S, c C) error
}

// CallMutAsyncWithCtx is the asynchronous counterpart of CallMutWithCtx.
type CallMutAsyncWithCtx[S, C any] interface {
	CallMutAsyncWithCtx(ctx context.Context, s *S, c C) error
}

// Discarder is implemented by messages carrying a return-value sender.
// Executors call Discard for messages they drop so waiting receivers are
// released.
type Discarder interface {
	Discard()
}

// Dispatch applies msg to s. A synchronous message is also accepted in an
// asynchronous setting; it simply ignores ctx.
func Dispatch[S any](ctx context.Context, msg any, s *S) error {
	switch m := msg.(type) {
	case CallMutAsync[S]:
		return m.CallMutAsync(ctx, s)
	case CallMut[S]:
		return m.CallMut(s)
	}
	return fmt.Errorf("%w: %T for %T", ErrNotDispatchable, msg, s)
}

// DispatchWithCtx applies msg to s passing c as the dispatch context.
// Messages without a context entry point fall back to Dispatch.
func DispatchWithCtx[S, C any](ctx context.Context, msg any, s *S, c C) error {
	switch m := msg.(type) {
	case CallMutAsyncWithCtx[S, C]:
		return m.CallMutAsyncWithCtx(ctx, s, c)
	case CallMutWithCtx[S, C]:
		return m.CallMutWithCtx(s, c)
	}
	return Dispatch(ctx, msg, s)
}

// Handler returns a function that dispatches messages of type M to s.
//
//	mb.Serve(ctx, ctrlgen.Handler[ServiceMsg](&svc))
func Handler[M, S any](s *S) func(ctx context.Context, msg M) error {
	return func(ctx context.Context, msg M) error {
		return Dispatch(ctx, any(msg), s)
	}
}

// HandlerWithCtx is like Handler but threads c into every call.
func HandlerWithCtx[M, S, C any](s *S, c C) func(ctx context.Context, msg M) error {
	return func(ctx context.Context, msg M) error {
		return DispatchWithCtx(ctx, any(msg), s, c)
	}
}
