package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/application/order/usecases"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

// AdminOrderHandler serves the admin panel's order table and dashboard.
type AdminOrderHandler struct {
	listUC         listOrdersUseCase
	updateStatusUC updateOrderStatusUseCase
	deleteUC       deleteOrderUseCase
	dashboardUC    getDashboardUseCase
	logger         logger.Interface
}

func NewAdminOrderHandler(
	listUC listOrdersUseCase,
	updateStatusUC updateOrderStatusUseCase,
	deleteUC deleteOrderUseCase,
	dashboardUC getDashboardUseCase,
	log logger.Interface,
) *AdminOrderHandler {
	return &AdminOrderHandler{
		listUC:         listUC,
		updateStatusUC: updateStatusUC,
		deleteUC:       deleteUC,
		dashboardUC:    dashboardUC,
		logger:         log,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List handles GET /api/admin/orders?limit=N
func (h *AdminOrderHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid limit", raw))
			return
		}
		limit = n
	}

	orders, err := h.listUC.Execute(c.Request.Context(), limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", orders)
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateOrderStatusCommand{
		OrderID: c.Param("id"),
		Status:  req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order status updated", result)
}

// Delete handles DELETE /api/admin/orders/:id
func (h *AdminOrderHandler) Delete(c *gin.Context) {
	if err := h.deleteUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminOrderHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
