package repository

import (
	"context"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// NotifyingOrderRepository publishes a change event after every successful
// write to the wrapped repository. A publish failure is logged; the write has
// already happened and is not undone.
type NotifyingOrderRepository struct {
	order.Repository
	feed   order.ChangeFeed
	logger logger.Interface
}

func NewNotifyingOrderRepository(inner order.Repository, feed order.ChangeFeed, log logger.Interface) *NotifyingOrderRepository {
	return &NotifyingOrderRepository{
		Repository: inner,
		feed:       feed,
		logger:     log,
	}
}

func (r *NotifyingOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := r.Repository.Create(ctx, o); err != nil {
		return err
	}
	r.publish(ctx, order.NewInsertEvent(o))
	return nil
}

func (r *NotifyingOrderRepository) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	o, err := r.Repository.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, order.NewUpdateEvent(o))
	return o, nil
}

func (r *NotifyingOrderRepository) Delete(ctx context.Context, orderID string) error {
	if err := r.Repository.Delete(ctx, orderID); err != nil {
		return err
	}
	r.publish(ctx, order.NewDeleteEvent(orderID))
	return nil
}

func (r *NotifyingOrderRepository) publish(ctx context.Context, event order.ChangeEvent) {
	if err := r.feed.Publish(context.WithoutCancel(ctx), event); err != nil {
		r.logger.Errorw("failed to publish order change",
			"type", event.Type,
			"order_id", event.ID,
			"error", err,
		)
	}
}
