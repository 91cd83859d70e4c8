package http

import (
	"github.com/fylo-cloud/fylo/internal/interfaces/http/handlers"
	"github.com/fylo-cloud/fylo/internal/shared/version"
)

type allHandlers struct {
	healthHandler      *handlers.HealthHandler
	pricingHandler     *handlers.PricingHandler
	hostingPlanHandler *handlers.HostingPlanHandler
	assistantHandler   *handlers.AssistantHandler
	adminOrderHandler  *handlers.AdminOrderHandler
	orderStreamHandler *handlers.OrderStreamHandler
}

func (c *Container) initHandlers() {
	streams := handlers.NewReconcilerFactory(c.repos.orderRepo, c.feed, c.log.Named("reconciler"), c.cfg.Dashboard.StreamBulkLimit)

	c.hdlrs = &allHandlers{
		healthHandler:      handlers.NewHealthHandler(version.String(), c.StorageConfigured()),
		pricingHandler:     handlers.NewPricingHandler(c.ucs.quotePriceUC, c.ucs.getCatalogUC, c.log),
		hostingPlanHandler: handlers.NewHostingPlanHandler(c.ucs.submitOrderUC, c.log),
		assistantHandler:   handlers.NewAssistantHandler(c.ucs.askAssistantUC, c.log),
		adminOrderHandler: handlers.NewAdminOrderHandler(
			c.ucs.listOrdersUC,
			c.ucs.updateOrderStatusUC,
			c.ucs.deleteOrderUC,
			c.ucs.getDashboardUC,
			c.log,
		),
		orderStreamHandler: handlers.NewOrderStreamHandler(streams, c.StorageConfigured(), c.cfg.Dashboard.MaxStreamsUser, c.log),
	}
}
