package pubsub

import (
	"errors"
	"sync"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/goroutine"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// queueSubscription is an unbounded FIFO between a feed and one consumer.
// push never blocks; Events() yields every pushed event in push order.
type queueSubscription struct {
	mu       sync.Mutex
	pending  []order.ChangeEvent
	finished bool
	err      error

	notify    chan struct{}
	out       chan order.ChangeEvent
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
}

func newQueueSubscription(log logger.Interface, onClose func()) *queueSubscription {
	q := &queueSubscription{
		notify:  make(chan struct{}, 1),
		out:     make(chan order.ChangeEvent),
		done:    make(chan struct{}),
		onClose: onClose,
	}
	goroutine.SafeGo(log, "changefeed-queue", q.run, func(any) {
		q.finish(errors.New("change queue panicked"))
	})
	return q
}

func (q *queueSubscription) Events() <-chan order.ChangeEvent {
	return q.out
}

// Err reports why the upstream ended, if it ended on its own.
func (q *queueSubscription) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Close stops delivery immediately; undelivered events are discarded.
func (q *queueSubscription) Close() error {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.finished = true
		q.pending = nil
		q.mu.Unlock()
		close(q.done)
		if q.onClose != nil {
			q.onClose()
		}
	})
	return nil
}

// push enqueues ev and reports whether the subscription still accepts events.
func (q *queueSubscription) push(ev order.ChangeEvent) bool {
	q.mu.Lock()
	if q.finished {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
	q.wake()
	return true
}

// finish marks the upstream as ended. Already queued events are still
// delivered before Events() is closed.
func (q *queueSubscription) finish(err error) {
	q.mu.Lock()
	if !q.finished {
		q.finished = true
		q.err = err
	}
	q.mu.Unlock()
	q.wake()
}

func (q *queueSubscription) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *queueSubscription) run() {
	defer close(q.out)
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			finished := q.finished
			q.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-q.notify:
				continue
			case <-q.done:
				return
			}
		}
		ev := q.pending[0]
		q.pending[0] = order.ChangeEvent{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		select {
		case q.out <- ev:
		case <-q.done:
			return
		}
	}
}
