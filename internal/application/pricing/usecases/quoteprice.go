package usecases

import (
	"context"
	stderrors "errors"

	orderdto "github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/application/pricing/dto"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/infrastructure/metrics"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

type QuotePriceCommand struct {
	Config orderdto.ConfigurationDTO `json:"config"`
}

// QuotePriceUseCase prices a configuration for the editor. Out-of-range
// quantities are clamped and reported as warnings instead of rejected.
type QuotePriceUseCase struct {
	engine *pricing.Engine
	logger logger.Interface
}

func NewQuotePriceUseCase(engine *pricing.Engine, logger logger.Interface) *QuotePriceUseCase {
	return &QuotePriceUseCase{
		engine: engine,
		logger: logger,
	}
}

func (uc *QuotePriceUseCase) Execute(_ context.Context, cmd QuotePriceCommand) (*dto.QuoteDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	cfg, err := cmd.Config.ToValueObject()
	if err != nil {
		return nil, errors.NewValidationError("Invalid configuration", err.Error())
	}

	quote := uc.engine.Quote(cfg)
	result := dto.ToQuoteDTO(quote)

	if err := uc.engine.Tariff().Validate(cfg); err != nil {
		var cfgErr *pricing.ConfigurationError
		if stderrors.As(err, &cfgErr) {
			result.Warnings = append(result.Warnings, cfgErr.Error())
		}
	}

	metrics.QuotesServed.Inc()
	uc.logger.Debugw("price quoted",
		"location", cfg.Location,
		"billing_period", cfg.BillingPeriod,
		"amount", quote.Amount,
		"clamped", quote.Clamped,
	)

	return result, nil
}
