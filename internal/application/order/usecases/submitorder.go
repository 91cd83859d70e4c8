package usecases

import (
	"context"
	stderrors "errors"
	"math"

	"github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/infrastructure/metrics"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/goroutine"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

// priceTolerance is how far a quoted price may drift from the tariff before
// the divergence is logged.
const priceTolerance = 0.01

type SubmitOrderCommand struct {
	Config      dto.ConfigurationDTO `json:"config"`
	Price       *float64             `json:"price" validate:"required"`
	ClientName  string               `json:"clientName" validate:"omitempty,max=255"`
	ClientEmail string               `json:"clientEmail" validate:"omitempty,email,max=255"`
	ClientIP    string               `json:"-"`
}

// OrderNotifier is told about every stored order. Failures never fail the
// submission.
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, o *order.Order) error
}

// SubmitOrderUseCase stores one order per call. There is no idempotency key:
// a client that submits twice gets two orders.
type SubmitOrderUseCase struct {
	orderRepo order.Repository
	engine    *pricing.Engine
	notifier  OrderNotifier
	logger    logger.Interface
}

// NewSubmitOrderUseCase creates the submitter. notifier may be nil.
func NewSubmitOrderUseCase(
	orderRepo order.Repository,
	engine *pricing.Engine,
	notifier OrderNotifier,
	logger logger.Interface,
) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{
		orderRepo: orderRepo,
		engine:    engine,
		notifier:  notifier,
		logger:    logger,
	}
}

func (uc *SubmitOrderUseCase) Execute(ctx context.Context, cmd SubmitOrderCommand) (*dto.OrderDTO, error) {
	o, err := uc.buildOrder(cmd)
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("invalid").Inc()
		return nil, err
	}

	uc.checkQuote(o)

	if err := uc.orderRepo.Create(ctx, o); err != nil {
		if stderrors.Is(err, order.ErrStorageNotConfigured) {
			metrics.OrdersSubmitted.WithLabelValues("disabled").Inc()
			uc.logger.Warnw("order submitted while storage is not configured")
			return nil, errors.NewUnavailableError(order.ErrStorageNotConfigured.Error()).WithCause(err)
		}

		metrics.OrdersSubmitted.WithLabelValues("failed").Inc()
		subErr := &order.SubmissionError{Reason: err.Error(), Err: err}
		uc.logger.Errorw("failed to store order",
			"order_id", o.ID(),
			"error", err,
		)
		return nil, errors.NewInternalError("Failed to register the order", subErr.Reason).WithCause(subErr)
	}

	metrics.OrdersSubmitted.WithLabelValues("ok").Inc()
	uc.logger.Infow("order submitted",
		"order_id", o.ID(),
		"location", o.Configuration().Location,
		"billing_period", o.Configuration().BillingPeriod,
		"quoted_price", o.QuotedPrice(),
		"monthly_revenue", o.MonthlyRevenue(),
	)
	if fields := utils.ClientLogFields(o.Client().Email, o.Client().IP); len(fields) > 0 {
		uc.logger.Debugw("order client", append([]interface{}{"order_id", o.ID()}, fields...)...)
	}

	uc.notify(ctx, o)

	return dto.ToOrderDTO(o), nil
}

func (uc *SubmitOrderUseCase) buildOrder(cmd SubmitOrderCommand) (*order.Order, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	price := *cmd.Price
	if !pricing.IsValidAmount(price) {
		return nil, errors.NewValidationError("Invalid price", order.ErrInvalidPrice.Error())
	}

	cfg, err := cmd.Config.ToValueObject()
	if err != nil {
		return nil, errors.NewValidationError("Invalid configuration", err.Error())
	}

	o, err := order.NewOrder(cfg, price, order.ClientInfo{
		Name:  cmd.ClientName,
		Email: cmd.ClientEmail,
		IP:    cmd.ClientIP,
	})
	if err != nil {
		return nil, errors.NewValidationError("Invalid order", err.Error())
	}
	return o, nil
}

// checkQuote logs orders whose configuration or price the editor should
// not have produced. They are still accepted.
func (uc *SubmitOrderUseCase) checkQuote(o *order.Order) {
	if uc.engine == nil {
		return
	}

	cfg := o.Configuration()
	if err := uc.engine.Tariff().Validate(cfg); err != nil {
		uc.logger.Warnw("order configuration outside tariff",
			"order_id", o.ID(),
			"error", err,
		)
	}

	expected := uc.engine.Price(cfg)
	if math.Abs(expected-o.QuotedPrice()) > priceTolerance {
		uc.logger.Warnw("quoted price diverges from tariff",
			"order_id", o.ID(),
			"quoted_price", o.QuotedPrice(),
			"tariff_price", expected,
		)
	}
}

func (uc *SubmitOrderUseCase) notify(ctx context.Context, o *order.Order) {
	if uc.notifier == nil {
		return
	}

	notifyCtx := context.WithoutCancel(ctx)
	snapshot := o.Clone()
	goroutine.SafeGo(uc.logger, "order-notifier", func() {
		if err := uc.notifier.NotifyOrderCreated(notifyCtx, snapshot); err != nil {
			uc.logger.Warnw("failed to send order notification",
				"order_id", snapshot.ID(),
				"error", err,
			)
		}
	})
}
