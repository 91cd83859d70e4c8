package pubsub

import (
	"context"
	"sync"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/goroutine"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// MemoryChangeFeed fans events out to subscribers in the same process.
type MemoryChangeFeed struct {
	mu     sync.RWMutex
	subs   map[*queueSubscription]struct{}
	logger logger.Interface
}

func NewMemoryChangeFeed(log logger.Interface) *MemoryChangeFeed {
	return &MemoryChangeFeed{
		subs:   make(map[*queueSubscription]struct{}),
		logger: log,
	}
}

func (f *MemoryChangeFeed) Publish(ctx context.Context, event order.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subs {
		sub.push(event)
	}
	f.logger.Debugw("order change published",
		"change_type", event.Type,
		"order_id", event.ID,
		"subscribers", len(f.subs),
	)
	return nil
}

// Subscribe registers a new subscriber. Cancelling ctx closes it.
func (f *MemoryChangeFeed) Subscribe(ctx context.Context) (order.ChangeSubscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var sub *queueSubscription
	sub = newQueueSubscription(f.logger, func() {
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
	})

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	closeOnDone(ctx, f.logger, sub)
	return sub, nil
}

// SubscriberCount is the number of open subscriptions.
func (f *MemoryChangeFeed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func closeOnDone(ctx context.Context, log logger.Interface, sub *queueSubscription) {
	if ctx.Done() == nil {
		return
	}
	goroutine.SafeGo(log, "changefeed-ctx-watch", func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	})
}
