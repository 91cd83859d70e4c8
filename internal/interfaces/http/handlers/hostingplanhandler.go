package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/application/order/usecases"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

// HostingPlanHandler accepts storefront orders. Its responses keep the flat
// {ok} / {error, details} shape the storefront already parses.
type HostingPlanHandler struct {
	submitUC submitOrderUseCase
	logger   logger.Interface
}

func NewHostingPlanHandler(submitUC submitOrderUseCase, log logger.Interface) *HostingPlanHandler {
	return &HostingPlanHandler{
		submitUC: submitUC,
		logger:   log,
	}
}

type createHostingPlanResponse struct {
	OK bool `json:"ok"`
}

// Create handles POST /api/hosting-plans
func (h *HostingPlanHandler) Create(c *gin.Context) {
	var cmd usecases.SubmitOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Debugw("invalid order request body", "error", err)
		utils.PlainErrorResponse(c, errors.NewValidationError(
			"Faltan datos de configuración o precio para registrar la VPS.", err.Error()))
		return
	}
	cmd.ClientIP = utils.ClientIP(c.Request.Header)

	if _, err := h.submitUC.Execute(c.Request.Context(), cmd); err != nil {
		utils.PlainErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, createHostingPlanResponse{OK: true})
}
