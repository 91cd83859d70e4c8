package usecases

import (
	"context"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

type DeleteOrderUseCase struct {
	orderRepo order.Repository
	logger    logger.Interface
}

func NewDeleteOrderUseCase(orderRepo order.Repository, logger logger.Interface) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *DeleteOrderUseCase) Execute(ctx context.Context, orderID string) error {
	if orderID == "" {
		return errors.NewValidationError("Order ID is required")
	}

	if err := uc.orderRepo.Delete(ctx, orderID); err != nil {
		uc.logger.Warnw("failed to delete order", "order_id", orderID, "error", err)
		return storageError(err, "Failed to delete order")
	}

	uc.logger.Infow("order deleted", "order_id", orderID)
	return nil
}
