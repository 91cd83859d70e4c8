package usecases

import (
	"context"

	"github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// ListOrdersUseCase is the admin bulk read, newest first.
type ListOrdersUseCase struct {
	orderRepo order.Repository
	maxLimit  int
	logger    logger.Interface
}

func NewListOrdersUseCase(orderRepo order.Repository, maxLimit int, logger logger.Interface) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		orderRepo: orderRepo,
		maxLimit:  maxLimit,
		logger:    logger,
	}
}

// Execute returns up to limit orders. A limit outside 1..maxLimit is clamped
// to maxLimit.
func (uc *ListOrdersUseCase) Execute(ctx context.Context, limit int) ([]*dto.OrderDTO, error) {
	if uc.maxLimit > 0 && (limit <= 0 || limit > uc.maxLimit) {
		limit = uc.maxLimit
	}

	orders, err := uc.orderRepo.ListRecent(ctx, limit)
	if err != nil {
		uc.logger.Errorw("failed to list orders", "error", err)
		return nil, storageError(err, "Failed to list orders")
	}

	return dto.ToOrderDTOs(orders), nil
}
