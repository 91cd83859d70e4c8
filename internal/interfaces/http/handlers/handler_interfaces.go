package handlers

import (
	"context"

	assistantdto "github.com/fylo-cloud/fylo/internal/application/assistant/dto"
	assistantUsecases "github.com/fylo-cloud/fylo/internal/application/assistant/usecases"
	orderdto "github.com/fylo-cloud/fylo/internal/application/order/dto"
	orderUsecases "github.com/fylo-cloud/fylo/internal/application/order/usecases"
	pricingdto "github.com/fylo-cloud/fylo/internal/application/pricing/dto"
	pricingUsecases "github.com/fylo-cloud/fylo/internal/application/pricing/usecases"
)

// Use case interfaces consumed by the handlers

type submitOrderUseCase interface {
	Execute(ctx context.Context, cmd orderUsecases.SubmitOrderCommand) (*orderdto.OrderDTO, error)
}

type quotePriceUseCase interface {
	Execute(ctx context.Context, cmd pricingUsecases.QuotePriceCommand) (*pricingdto.QuoteDTO, error)
}

type getCatalogUseCase interface {
	Execute(ctx context.Context) *pricingdto.CatalogDTO
}

type askAssistantUseCase interface {
	Execute(ctx context.Context, cmd assistantUsecases.AskAssistantCommand) (*assistantdto.AnswerDTO, error)
}

type listOrdersUseCase interface {
	Execute(ctx context.Context, limit int) ([]*orderdto.OrderDTO, error)
}

type updateOrderStatusUseCase interface {
	Execute(ctx context.Context, cmd orderUsecases.UpdateOrderStatusCommand) (*orderdto.OrderDTO, error)
}

type deleteOrderUseCase interface {
	Execute(ctx context.Context, orderID string) error
}

type getDashboardUseCase interface {
	Execute(ctx context.Context) (*orderdto.DashboardDTO, error)
}
