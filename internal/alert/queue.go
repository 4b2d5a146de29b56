package alert

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-swap-watch/internal/observability"
)

var (
	// ErrQueueFull is returned when the dispatch queue cannot take more alerts.
	ErrQueueFull = errors.New("alert queue full")

	// ErrQueueClosed is returned after Close has been called.
	ErrQueueClosed = errors.New("alert queue closed")
)

// Default queue configuration values.
const (
	DefaultQueueSize   = 256
	DefaultSendTimeout = 10 * time.Second
)

// QueueOptions configures a Queue.
type QueueOptions struct {
	Size        int           // Default: 256
	SendTimeout time.Duration // Default: 10s - per-alert delivery bound
	Logger      zerolog.Logger
}

// Queue is a Dispatcher backed by a bounded channel and a single sender
// goroutine. Dispatch never waits for delivery; alerts are delivered in the
// order they were accepted.
type Queue struct {
	sink        Sink
	sendTimeout time.Duration
	logger      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	ch     chan Alert

	sendCtx    context.Context
	cancelSend context.CancelFunc
	done       chan struct{}
}

// NewQueue creates a queue delivering to sink and starts its sender.
func NewQueue(sink Sink, opts QueueOptions) *Queue {
	size := opts.Size
	if size <= 0 {
		size = DefaultQueueSize
	}

	sendTimeout := opts.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}

	sendCtx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		sink:        sink,
		sendTimeout: sendTimeout,
		logger:      opts.Logger,
		ch:          make(chan Alert, size),
		sendCtx:     sendCtx,
		cancelSend:  cancel,
		done:        make(chan struct{}),
	}

	go q.run()

	return q
}

// Dispatch enqueues a for delivery. Returns ErrQueueFull instead of blocking.
func (q *Queue) Dispatch(ctx context.Context, a Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		observability.RecordAlertDropped("closed")
		return ErrQueueClosed
	}

	select {
	case q.ch <- a:
		observability.RecordAlertDispatched(a.Kind.String())
		observability.UpdateQueueDepth(len(q.ch))
		return nil
	default:
		observability.RecordAlertDropped("queue_full")
		return ErrQueueFull
	}
}

// Len returns the number of alerts waiting for delivery.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops accepting alerts and waits for queued ones to be delivered.
// When ctx expires first, in-flight and remaining sends are cancelled.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		q.cancelSend()
		return nil
	case <-ctx.Done():
		q.cancelSend()
		<-q.done
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)

	for a := range q.ch {
		observability.UpdateQueueDepth(len(q.ch))
		q.deliver(a)
	}
}

func (q *Queue) deliver(a Alert) {
	ctx, cancel := context.WithTimeout(q.sendCtx, q.sendTimeout)
	defer cancel()

	start := time.Now()
	err := q.sink.Send(ctx, a)
	observability.RecordDelivery(q.sink.Name(), time.Since(start).Seconds(), err)

	if err != nil {
		q.logger.Warn().Err(err).
			Str("alert_id", a.ID).
			Str("kind", a.Kind.String()).
			Str("token", a.TokenID).
			Msg("alert delivery failed")
		return
	}

	q.logger.Debug().Str("alert_id", a.ID).Str("token", a.TokenID).Msg("alert delivered")
}

var _ Dispatcher = (*Queue)(nil)
