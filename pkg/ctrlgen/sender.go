package ctrlgen

// MessageSender accepts messages of type M. Generated proxies deliver every
// call through one.
type MessageSender[M any] interface {
	Send(msg M) error
}

// SenderFunc adapts a function to MessageSender.
type SenderFunc[M any] func(msg M) error

// Send calls f(msg).
func (f SenderFunc[M]) Send(msg M) error {
	return f(msg)
}

// ChanSender delivers messages over a Go channel.
type ChanSender[M any] struct {
	ch   chan<- M
	done <-chan struct{}
}

// NewChanSender returns a sender that blocks until ch accepts the message.
func NewChanSender[M any](ch chan<- M) ChanSender[M] {
	return ChanSender[M]{ch: ch}
}

// NewChanSenderWithDone is like NewChanSender but gives up with ErrClosed
// once done is closed.
func NewChanSenderWithDone[M any](ch chan<- M, done <-chan struct{}) ChanSender[M] {
	return ChanSender[M]{ch: ch, done: done}
}

// Send implements MessageSender.
func (c ChanSender[M]) Send(msg M) error {
	if c.done == nil {
		c.ch <- msg
		return nil
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.ch <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	}
}
