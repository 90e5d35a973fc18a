// Package notify delivers best-effort email notifications. The request path
// only enqueues; a background worker owns sending, retries, and logging.
// Nothing in this package ever propagates a failure back to a request.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind tags a notification with the flow that produced it.
type Kind string

const (
	KindOrder   Kind = "order"
	KindContact Kind = "contact"
)

// Notification is a formatted outbound email.
type Notification struct {
	Kind    Kind
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers a single notification and returns the provider's message
// id.
type Sender interface {
	Send(ctx context.Context, n Notification) (string, error)
}

// retryDelay is the pause before the single retry of a failed send.
const retryDelay = 5 * time.Second

// Worker drains a bounded queue of notifications. Enqueue never blocks: when
// the buffer is full the notification is dropped with an error log.
type Worker struct {
	sender Sender
	lg     *zap.Logger
	queue  chan Notification
	wg     sync.WaitGroup
}

// NewWorker creates a Worker with the given queue capacity.
func NewWorker(sender Sender, lg *zap.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Worker{
		sender: sender,
		lg:     lg,
		queue:  make(chan Notification, buffer),
	}
}

// Start launches the drain goroutine. It stops when ctx is cancelled; pending
// queued notifications are abandoned at that point.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-w.queue:
				w.deliver(ctx, n)
			}
		}
	}()
}

// Wait blocks until the drain goroutine has exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// Enqueue hands a notification to the worker without blocking.
func (w *Worker) Enqueue(n Notification) {
	select {
	case w.queue <- n:
	default:
		w.lg.Error("notification queue full, dropping",
			zap.String("kind", string(n.Kind)),
			zap.String("subject", n.Subject),
		)
	}
}

// deliver sends with one retry after a short pause.
func (w *Worker) deliver(ctx context.Context, n Notification) {
	id, err := w.sender.Send(ctx, n)
	if err == nil {
		w.lg.Info("notification sent",
			zap.String("kind", string(n.Kind)),
			zap.String("message_id", id),
		)
		return
	}

	w.lg.Warn("notification send failed, retrying once",
		zap.String("kind", string(n.Kind)),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(retryDelay):
	}

	if id, err = w.sender.Send(ctx, n); err != nil {
		w.lg.Error("notification dropped after retry",
			zap.String("kind", string(n.Kind)),
			zap.String("subject", n.Subject),
			zap.Error(err),
		)
		return
	}

	w.lg.Info("notification sent on retry",
		zap.String("kind", string(n.Kind)),
		zap.String("message_id", id),
	)
}
