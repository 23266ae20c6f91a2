// Package mailbox serializes dispatch of generated ctrlgen messages to a
// single service instance.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/toyz/ctrlgen/pkg/ctrlgen"
)

const defaultPollInterval = 50 * time.Millisecond

// Handler applies one message.
type Handler[M any] func(ctx context.Context, msg M) error

// ErrorHandler decides what to do with a failed dispatch. Returning a
// non-nil error stops Serve with that error.
type ErrorHandler func(msg any, err error) error

type config struct {
	capacity     uint64
	logger       *zap.Logger
	pollInterval time.Duration
	onError      ErrorHandler
}

// Option configures a Mailbox.
type Option func(*config)

// WithCapacity bounds the backlog; Send blocks while it is full.
func WithCapacity(capacity uint64) Option {
	return func(c *config) {
		c.capacity = capacity
	}
}

// WithLogger sets the logger used for dispatch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPollInterval sets how often an idle Serve loop checks its context.
func WithPollInterval(interval time.Duration) Option {
	return func(c *config) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithErrorHandler installs a handler for dispatch failures.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		c.onError = handler
	}
}

// Mailbox is a message backlog consumed by a single Serve loop. It
// implements ctrlgen.MessageSender, so generated proxies can send into it.
type Mailbox[M any] struct {
	id           uuid.UUID
	backlog      backlog
	logger       *zap.Logger
	pollInterval time.Duration
	onError      ErrorHandler

	// mu orders the closed check in Send against Close; sending counts
	// Puts admitted before Close that may still land in the backlog.
	mu        sync.RWMutex
	closed    bool
	sending   *atomic.Int64
	serving   *atomic.Bool
	processed *atomic.Int64
	failed    *atomic.Int64
}

// New creates an empty mailbox. Without WithCapacity the backlog is unbounded.
func New[M any](opts ...Option) *Mailbox[M] {
	cfg := &config{
		logger:       zap.NewNop(),
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var b backlog
	if cfg.capacity > 0 {
		b = newBounded(cfg.capacity)
	} else {
		b = newUnbounded()
	}

	id := uuid.New()
	return &Mailbox[M]{
		id:           id,
		backlog:      b,
		logger:       cfg.logger.With(zap.String("mailbox", id.String())),
		pollInterval: cfg.pollInterval,
		onError:      cfg.onError,
		sending:      atomic.NewInt64(0),
		serving:      atomic.NewBool(false),
		processed:    atomic.NewInt64(0),
		failed:       atomic.NewInt64(0),
	}
}

var _ ctrlgen.MessageSender[struct{}] = (*Mailbox[struct{}])(nil)

// ID returns the mailbox identifier used in log fields.
func (m *Mailbox[M]) ID() uuid.UUID {
	return m.id
}

// Send enqueues msg. A message accepted here is either dispatched or
// discarded by Close.
func (m *Mailbox[M]) Send(msg M) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ctrlgen.ErrClosed
	}
	m.sending.Inc()
	m.mu.RUnlock()
	defer m.sending.Dec()

	if err := m.backlog.Put(msg); err != nil {
		if errors.Is(err, queue.ErrDisposed) {
			return ctrlgen.ErrClosed
		}
		return fmt.Errorf("mailbox %s: enqueue: %w", m.id, err)
	}
	return nil
}

// Len returns the number of queued messages.
func (m *Mailbox[M]) Len() int {
	return m.backlog.Len()
}

// Processed returns the number of messages dispatched so far.
func (m *Mailbox[M]) Processed() int64 {
	return m.processed.Load()
}

// Failed returns the number of dispatches that returned an error.
func (m *Mailbox[M]) Failed() int64 {
	return m.failed.Load()
}

// Serve dispatches queued messages to h one at a time until ctx is done or
// the mailbox is closed. Only one Serve loop may run per mailbox.
func (m *Mailbox[M]) Serve(ctx context.Context, h Handler[M]) error {
	if !m.serving.CompareAndSwap(false, true) {
		return fmt.Errorf("mailbox %s: already serving", m.id)
	}
	defer m.serving.Store(false)

	m.logger.Debug("mailbox serving")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := m.backlog.Poll(m.pollInterval)
		if err != nil {
			switch {
			case errors.Is(err, queue.ErrTimeout):
				continue
			case errors.Is(err, queue.ErrDisposed):
				m.logger.Debug("mailbox closed")
				return nil
			default:
				return fmt.Errorf("mailbox %s: poll: %w", m.id, err)
			}
		}

		msg, ok := item.(M)
		if !ok {
			return fmt.Errorf("mailbox %s: unexpected item %T", m.id, item)
		}

		if err := h(ctx, msg); err != nil {
			m.failed.Inc()
			m.logger.Warn("dispatch failed",
				zap.String("message", fmt.Sprintf("%T", msg)),
				zap.Error(err))
			if m.onError != nil {
				if stop := m.onError(msg, err); stop != nil {
					return stop
				}
			}
		}
		m.processed.Inc()
	}
}

// Close stops accepting messages, discards the backlog and ends Serve.
// Discarded messages that carry a return-value sender are released so
// their receivers report ctrlgen.ErrEmpty. It returns the number of
// discarded messages.
func (m *Mailbox[M]) Close() int {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0
	}
	m.closed = true
	m.mu.Unlock()

	dropped := 0
	for m.sending.Load() > 0 || m.backlog.Len() > 0 {
		item, err := m.backlog.Poll(time.Millisecond)
		if errors.Is(err, queue.ErrTimeout) {
			continue
		}
		if err != nil {
			break
		}
		if d, ok := item.(ctrlgen.Discarder); ok {
			d.Discard()
		}
		dropped++
	}
	m.backlog.Dispose()

	if dropped > 0 {
		m.logger.Info("mailbox closed with pending messages", zap.Int("dropped", dropped))
	}
	return dropped
}
