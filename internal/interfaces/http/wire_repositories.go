package http

import (
	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/infrastructure/repository"
)

type repositories struct {
	orderRepo order.Repository
}

func (c *Container) initRepositories() {
	if c.db == nil {
		c.log.Warnw("order storage not configured, order endpoints are disabled")
		c.repos = &repositories{orderRepo: repository.NewDisabledOrderRepository()}
		return
	}

	store := repository.NewOrderRepository(c.db, c.cfg.Pricing.Currency)
	c.repos = &repositories{
		orderRepo: repository.NewNotifyingOrderRepository(store, c.feed, c.log.Named("orders")),
	}
}
