package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

const orderChangeSubject = "fylo.orders.change"

var errNATSClosed = errors.New("nats connection closed")

// NATSChangeFeed distributes order changes over a core NATS subject. When the
// connection closes for good, every open subscription ends with an error so
// viewers can flag their view as stale.
type NATSChangeFeed struct {
	nc      *nats.Conn
	subject string
	logger  logger.Interface

	mu     sync.Mutex
	subs   map[*queueSubscription]struct{}
	closed bool
}

// ConnectNATS dials url with unlimited reconnects.
func ConnectNATS(url string, log logger.Interface) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("fylo"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warnw("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return nc, nil
}

func NewNATSChangeFeed(nc *nats.Conn, log logger.Interface) *NATSChangeFeed {
	f := &NATSChangeFeed{
		nc:      nc,
		subject: orderChangeSubject,
		logger:  log,
		subs:    make(map[*queueSubscription]struct{}),
	}
	if nc != nil {
		nc.SetClosedHandler(func(*nats.Conn) { f.connectionClosed() })
	}
	return f
}

func (f *NATSChangeFeed) Publish(ctx context.Context, event order.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if f.nc == nil || f.nc.IsClosed() {
		return fmt.Errorf("nats not connected")
	}
	data, err := encodeChangeEvent(event)
	if err != nil {
		return err
	}
	if err := f.nc.Publish(f.subject, data); err != nil {
		f.logger.Errorw("failed to publish order change event",
			"order_id", event.ID,
			"change_type", event.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (f *NATSChangeFeed) Subscribe(ctx context.Context) (order.ChangeSubscription, error) {
	if f.nc == nil || f.nc.IsClosed() {
		return nil, fmt.Errorf("nats not connected")
	}

	var ns *nats.Subscription
	var sub *queueSubscription
	sub = newQueueSubscription(f.logger, func() {
		f.untrack(sub)
		if ns != nil {
			_ = ns.Unsubscribe()
		}
	})
	if !f.track(sub) {
		_ = sub.Close()
		return nil, errNATSClosed
	}

	// The handler runs on the connection's dispatch goroutine; push never blocks it.
	ns, err := f.nc.Subscribe(f.subject, func(msg *nats.Msg) {
		ev, err := decodeChangeEvent(msg.Data)
		if err != nil {
			f.logger.Warnw("failed to decode order change event",
				"subject", msg.Subject,
				"error", err,
			)
			return
		}
		sub.push(ev)
	})
	if err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", f.subject, err)
	}
	if err := f.nc.Flush(); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to confirm subscription to %s: %w", f.subject, err)
	}

	closeOnDone(ctx, f.logger, sub)
	return sub, nil
}

func (f *NATSChangeFeed) track(sub *queueSubscription) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.subs[sub] = struct{}{}
	return true
}

func (f *NATSChangeFeed) untrack(sub *queueSubscription) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

// connectionClosed ends every open subscription. Queued events are still
// delivered first.
func (f *NATSChangeFeed) connectionClosed() {
	f.mu.Lock()
	f.closed = true
	subs := make([]*queueSubscription, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.subs = make(map[*queueSubscription]struct{})
	f.mu.Unlock()

	if len(subs) > 0 {
		f.logger.Warnw("nats connection closed, ending order change subscriptions", "subscriptions", len(subs))
	}
	for _, sub := range subs {
		sub.finish(errNATSClosed)
	}
}

func (f *NATSChangeFeed) Close() {
	if f.nc != nil {
		_ = f.nc.Drain()
	}
}
