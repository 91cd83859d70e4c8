package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/infrastructure/metrics"
	"github.com/fylo-cloud/fylo/internal/shared/goroutine"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// State is the lifecycle stage of a ChangeStreamReconciler.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateLive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrReconcilerStarted = errors.New("reconciler already started")
	ErrReconcilerClosed  = errors.New("reconciler closed")
)

// SnapshotReader performs the bulk read that seeds a view.
type SnapshotReader interface {
	ListRecent(ctx context.Context, limit int) ([]*order.Order, error)
}

// errorSource is implemented by subscriptions that know why they ended.
type errorSource interface {
	Err() error
}

// ChangeStreamReconciler keeps one viewer's list of orders consistent with
// the order table. It merges a bulk snapshot with the live change stream:
// events are applied one at a time in arrival order, events win over the
// snapshot for the same id, and ids deleted before the snapshot lands stay
// deleted. Create one per viewer; instances share nothing.
type ChangeStreamReconciler struct {
	reader    SnapshotReader
	feed      order.ChangeFeed
	logger    logger.Interface
	bulkLimit int

	mu      sync.Mutex
	state   State
	view    *orderView
	sub     order.ChangeSubscription
	lastErr error

	changed chan struct{}
	pumped  chan struct{}
}

type ReconcilerOption func(*ChangeStreamReconciler)

// WithBulkLimit caps the snapshot size. Zero reads every order.
func WithBulkLimit(n int) ReconcilerOption {
	return func(r *ChangeStreamReconciler) {
		r.bulkLimit = n
	}
}

func NewChangeStreamReconciler(reader SnapshotReader, feed order.ChangeFeed, log logger.Interface, opts ...ReconcilerOption) *ChangeStreamReconciler {
	r := &ChangeStreamReconciler{
		reader:  reader,
		feed:    feed,
		logger:  log.Named("reconciler"),
		view:    newOrderView(),
		changed: make(chan struct{}, 1),
		pumped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start subscribes to the change stream and then issues the bulk read in the
// background, so both are in flight together and no change committed after
// the subscription is confirmed can be missed. A subscription failure does
// not fail Start: it is recorded in Err and the view is built from the
// snapshot alone.
func (r *ChangeStreamReconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case StateClosed:
		r.mu.Unlock()
		return ErrReconcilerClosed
	case StateUninitialized:
	default:
		r.mu.Unlock()
		return ErrReconcilerStarted
	}
	r.state = StateLoading
	r.mu.Unlock()

	sub, err := r.feed.Subscribe(ctx)
	if err != nil {
		r.logger.Warnw("order change subscription failed, view will not update live", "error", err)
		r.setErr(&order.StreamError{Op: "subscribe", Err: err})
		close(r.pumped)
	} else if !r.attach(sub) {
		// Closed while subscribing.
		_ = sub.Close()
		close(r.pumped)
		return ErrReconcilerClosed
	} else {
		goroutine.SafeGo(r.logger, "reconciler-pump", func() { r.pump(sub) }, func(any) {
			r.setErr(&order.StreamError{Op: "apply", Err: errors.New("event handler panicked")})
		})
	}

	// In-flight bulk reads are never cancelled; Close makes their result moot.
	bulkCtx := context.WithoutCancel(ctx)
	goroutine.SafeGo(r.logger, "reconciler-bulk-read", func() { r.load(bulkCtx) }, func(any) {
		r.finishLoading(nil, errors.New("bulk read panicked"))
	})
	return nil
}

func (r *ChangeStreamReconciler) attach(sub order.ChangeSubscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return false
	}
	r.sub = sub
	return true
}

func (r *ChangeStreamReconciler) pump(sub order.ChangeSubscription) {
	defer close(r.pumped)
	for ev := range sub.Events() {
		r.apply(ev)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return
	}
	cause := order.ErrFeedClosed
	if es, ok := sub.(errorSource); ok && es.Err() != nil {
		cause = es.Err()
	}
	r.lastErr = &order.StreamError{Op: "receive", Err: cause}
	r.logger.Warnw("order change stream ended, view is now stale", "error", cause)
	r.signal()
}

func (r *ChangeStreamReconciler) apply(ev order.ChangeEvent) {
	if err := ev.Validate(); err != nil {
		r.logger.Warnw("ignoring malformed change event", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return
	}
	r.view.apply(ev)
	metrics.ReconcilerEventsApplied.WithLabelValues(string(ev.Type)).Inc()
	r.signal()
}

func (r *ChangeStreamReconciler) load(ctx context.Context) {
	records, err := r.reader.ListRecent(ctx, r.bulkLimit)
	r.finishLoading(records, err)
}

func (r *ChangeStreamReconciler) finishLoading(records []*order.Order, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateLoading {
		return
	}

	if err != nil {
		r.logger.Errorw("bulk read of orders failed", "error", err)
		r.lastErr = &order.StreamError{Op: "bulk read", Err: err}
	}
	added := r.view.seed(records)
	r.state = StateLive
	r.logger.Debugw("order view live", "snapshot", len(records), "seeded", added, "total", len(r.view.records))
	r.signal()
}

// signal wakes a Changed waiter. Must hold r.mu.
func (r *ChangeStreamReconciler) signal() {
	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func (r *ChangeStreamReconciler) setErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.signal()
	r.mu.Unlock()
}

// Close releases the subscription and discards the view. Later events and a
// late snapshot are ignored. Close is idempotent.
func (r *ChangeStreamReconciler) Close() error {
	r.mu.Lock()
	if r.state == StateClosed {
		r.mu.Unlock()
		return nil
	}
	started := r.state != StateUninitialized
	r.state = StateClosed
	r.view = newOrderView()
	sub := r.sub
	r.sub = nil
	r.signal()
	r.mu.Unlock()

	var err error
	if sub != nil {
		err = sub.Close()
	}
	if !started {
		close(r.pumped)
	}
	return err
}

// CurrentView returns a copy of the view, newest activity first. It is empty
// before Start and after Close.
func (r *ChangeStreamReconciler) CurrentView() []*order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed || r.state == StateUninitialized {
		return []*order.Order{}
	}
	return r.view.snapshot()
}

func (r *ChangeStreamReconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the last StreamError, or nil while the stream is healthy. A
// non-nil value means the view may be stale; it stays readable.
func (r *ChangeStreamReconciler) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Changed receives a value after the view, state or error changes. Signals
// coalesce: one receive may cover several changes.
func (r *ChangeStreamReconciler) Changed() <-chan struct{} {
	return r.changed
}

// Done is closed once no further events will be applied.
func (r *ChangeStreamReconciler) Done() <-chan struct{} {
	return r.pumped
}
