package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/application/assistant/usecases"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

type AssistantHandler struct {
	askUC  askAssistantUseCase
	logger logger.Interface
}

func NewAssistantHandler(askUC askAssistantUseCase, log logger.Interface) *AssistantHandler {
	return &AssistantHandler{
		askUC:  askUC,
		logger: log,
	}
}

// Ask handles POST /api/ai-assistant
func (h *AssistantHandler) Ask(c *gin.Context) {
	var cmd usecases.AskAssistantCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.PlainErrorResponse(c, errors.NewValidationError("Mensajes no válidos.", err.Error()))
		return
	}

	result, err := h.askUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.PlainErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
