package usecases

import (
	"context"

	"github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

type UpdateOrderStatusCommand struct {
	OrderID string `json:"id" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=active suspended cancelled"`
}

type UpdateOrderStatusUseCase struct {
	orderRepo order.Repository
	logger    logger.Interface
}

func NewUpdateOrderStatusUseCase(orderRepo order.Repository, logger logger.Interface) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, cmd UpdateOrderStatusCommand) (*dto.OrderDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.UpdateStatus(ctx, cmd.OrderID, order.Status(cmd.Status))
	if err != nil {
		uc.logger.Warnw("failed to update order status",
			"order_id", cmd.OrderID,
			"status", cmd.Status,
			"error", err,
		)
		return nil, storageError(err, "Failed to update order status")
	}

	uc.logger.Infow("order status updated", "order_id", o.ID(), "status", o.Status())
	return dto.ToOrderDTO(o), nil
}
