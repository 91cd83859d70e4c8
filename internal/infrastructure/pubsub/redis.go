package pubsub

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/goroutine"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

const orderChangeChannel = "fylo:orders:change"

// RedisChangeFeed distributes order changes across instances over Redis
// Pub/Sub. Every Subscribe opens its own Redis subscription, so a dropped
// connection ends exactly the viewers that depended on it.
type RedisChangeFeed struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisChangeFeed(client *redis.Client, log logger.Interface) *RedisChangeFeed {
	return &RedisChangeFeed{
		client:  client,
		channel: orderChangeChannel,
		logger:  log,
	}
}

func (b *RedisChangeFeed) Publish(ctx context.Context, event order.ChangeEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	data, err := encodeChangeEvent(event)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish order change event",
			"order_id", event.ID,
			"change_type", event.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("order change event published",
		"order_id", event.ID,
		"change_type", event.Type,
	)
	return nil
}

func (b *RedisChangeFeed) Subscribe(ctx context.Context) (order.ChangeSubscription, error) {
	ps := b.client.Subscribe(ctx, b.channel)

	// Wait for subscription confirmation
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	sub := newQueueSubscription(b.logger, func() { _ = ps.Close() })
	closeOnDone(ctx, b.logger, sub)

	goroutine.SafeGo(b.logger, "order-change-redis-"+b.channel, func() {
		b.pump(ps, sub)
	}, func(any) {
		sub.finish(errors.New("redis subscriber panicked"))
	})

	b.logger.Debugw("subscribed to order change channel", "channel", b.channel)
	return sub, nil
}

func (b *RedisChangeFeed) pump(ps *redis.PubSub, sub *queueSubscription) {
	for {
		select {
		case <-sub.done:
			return
		case msg, ok := <-ps.Channel():
			if !ok {
				b.logger.Warnw("order change channel closed", "channel", b.channel)
				sub.finish(fmt.Errorf("redis channel %s closed", b.channel))
				return
			}
			ev, err := decodeChangeEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warnw("failed to decode order change event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}
			sub.push(ev)
		}
	}
}
