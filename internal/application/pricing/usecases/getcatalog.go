package usecases

import (
	"context"

	"github.com/fylo-cloud/fylo/internal/application/pricing/dto"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
)

type GetCatalogUseCase struct {
	engine *pricing.Engine
}

func NewGetCatalogUseCase(engine *pricing.Engine) *GetCatalogUseCase {
	return &GetCatalogUseCase{engine: engine}
}

func (uc *GetCatalogUseCase) Execute(_ context.Context) *dto.CatalogDTO {
	return dto.ToCatalogDTO(uc.engine.Tariff())
}
