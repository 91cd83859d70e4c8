package http

import (
	assistantUsecases "github.com/fylo-cloud/fylo/internal/application/assistant/usecases"
	orderUsecases "github.com/fylo-cloud/fylo/internal/application/order/usecases"
	pricingUsecases "github.com/fylo-cloud/fylo/internal/application/pricing/usecases"
	"github.com/fylo-cloud/fylo/internal/shared/services/markdown"
)

type allUseCases struct {
	quotePriceUC        *pricingUsecases.QuotePriceUseCase
	getCatalogUC        *pricingUsecases.GetCatalogUseCase
	submitOrderUC       *orderUsecases.SubmitOrderUseCase
	listOrdersUC        *orderUsecases.ListOrdersUseCase
	updateOrderStatusUC *orderUsecases.UpdateOrderStatusUseCase
	deleteOrderUC       *orderUsecases.DeleteOrderUseCase
	getDashboardUC      *orderUsecases.GetDashboardUseCase
	askAssistantUC      *assistantUsecases.AskAssistantUseCase
}

func (c *Container) initUseCases() {
	orderRepo := c.repos.orderRepo

	c.ucs = &allUseCases{
		quotePriceUC:        pricingUsecases.NewQuotePriceUseCase(c.engineSvc, c.log),
		getCatalogUC:        pricingUsecases.NewGetCatalogUseCase(c.engineSvc),
		submitOrderUC:       orderUsecases.NewSubmitOrderUseCase(orderRepo, c.engineSvc, c.orderNotifier(), c.log),
		listOrdersUC:        orderUsecases.NewListOrdersUseCase(orderRepo, c.cfg.Dashboard.ListLimit, c.log),
		updateOrderStatusUC: orderUsecases.NewUpdateOrderStatusUseCase(orderRepo, c.log),
		deleteOrderUC:       orderUsecases.NewDeleteOrderUseCase(orderRepo, c.log),
		getDashboardUC: orderUsecases.NewGetDashboardUseCase(
			orderRepo, c.dashboardStatsCache, c.cfg.Dashboard.RevenueMonths, c.log,
		),
		askAssistantUC: assistantUsecases.NewAskAssistantUseCase(
			c.textGenerator(), markdown.NewMarkdownService(), c.cfg.Assistant.HistorySize, c.log,
		),
	}
}
