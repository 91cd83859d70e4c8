package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/application/pricing/usecases"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

// PricingHandler serves the configurator's live price and option catalog.
type PricingHandler struct {
	quoteUC   quotePriceUseCase
	catalogUC getCatalogUseCase
	logger    logger.Interface
}

func NewPricingHandler(quoteUC quotePriceUseCase, catalogUC getCatalogUseCase, log logger.Interface) *PricingHandler {
	return &PricingHandler{
		quoteUC:   quoteUC,
		catalogUC: catalogUC,
		logger:    log,
	}
}

// Quote handles POST /api/pricing/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	var cmd usecases.QuotePriceCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Debugw("invalid quote request body", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.quoteUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Catalog handles GET /api/pricing/catalog
func (h *PricingHandler) Catalog(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	utils.SuccessResponse(c, http.StatusOK, "", h.catalogUC.Execute(c.Request.Context()))
}
