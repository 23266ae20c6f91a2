package ctrlgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tally struct {
	total int
	label string
}

type tallyAdd struct {
	N   int
	Ret Sender[int]
}

func (m tallyAdd) CallMut(s *tally) error {
	s.total += m.N
	return Send(m.Ret, s.total)
}

type tallyLabel struct {
	Label string
}

func (m tallyLabel) CallMutAsync(ctx context.Context, s *tally) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.label = m.Label
	return nil
}

type tallyScaled struct {
	N int
}

func (m tallyScaled) CallMutWithCtx(s *tally, factor int) error {
	s.total += m.N * factor
	return nil
}

func TestDispatch(t *testing.T) {
	t.Run("sync message", func(t *testing.T) {
		var s tally
		tx, rx := Create[int, Local[int]]()

		require.NoError(t, Dispatch(context.Background(), tallyAdd{N: 2, Ret: tx}, &s))
		assert.Equal(t, 2, s.total)
		got, err := rx.Recv(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("async message", func(t *testing.T) {
		var s tally
		require.NoError(t, Dispatch(context.Background(), tallyLabel{Label: "x"}, &s))
		assert.Equal(t, "x", s.label)
	})

	t.Run("async message observes context", func(t *testing.T) {
		var s tally
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Dispatch(ctx, tallyLabel{Label: "x"}, &s)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, s.label)
	})

	t.Run("not dispatchable", func(t *testing.T) {
		var s tally
		err := Dispatch(context.Background(), "nope", &s)
		assert.ErrorIs(t, err, ErrNotDispatchable)
	})

	t.Run("with context value", func(t *testing.T) {
		var s tally
		require.NoError(t, DispatchWithCtx(context.Background(), tallyScaled{N: 2}, &s, 10))
		assert.Equal(t, 20, s.total)

		// falls back when the message takes no context value
		require.NoError(t, DispatchWithCtx(context.Background(), tallyAdd{N: 1}, &s, 10))
		assert.Equal(t, 21, s.total)
	})

	t.Run("send failure propagates", func(t *testing.T) {
		var s tally
		tx, rx := Create[int, Promise[int]]()
		rx.Cancel()

		err := Dispatch(context.Background(), tallyAdd{N: 1, Ret: tx}, &s)
		assert.True(t, errors.Is(err, ErrSendFailed))
		assert.Equal(t, 1, s.total)
	})
}

func TestHandler(t *testing.T) {
	var s tally
	h := Handler[any](&s)
	require.NoError(t, h(context.Background(), tallyAdd{N: 4}))
	assert.Equal(t, 4, s.total)

	hc := HandlerWithCtx[any](&s, 3)
	require.NoError(t, hc(context.Background(), tallyScaled{N: 1}))
	assert.Equal(t, 7, s.total)
}

func TestSenders(t *testing.T) {
	t.Run("func", func(t *testing.T) {
		var got []int
		var sender MessageSender[int] = SenderFunc[int](func(msg int) error {
			got = append(got, msg)
			return nil
		})
		require.NoError(t, sender.Send(1))
		require.NoError(t, sender.Send(2))
		assert.Equal(t, []int{1, 2}, got)
	})

	t.Run("chan", func(t *testing.T) {
		ch := make(chan int, 1)
		require.NoError(t, NewChanSender[int](ch).Send(9))
		assert.Equal(t, 9, <-ch)
	})

	t.Run("chan done", func(t *testing.T) {
		ch := make(chan int)
		done := make(chan struct{})
		close(done)
		err := NewChanSenderWithDone[int](ch, done).Send(1)
		assert.ErrorIs(t, err, ErrClosed)
	})
}
