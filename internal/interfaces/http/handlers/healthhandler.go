package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version           string
	storageConfigured bool
}

func NewHealthHandler(version string, storageConfigured bool) *HealthHandler {
	return &HealthHandler{version: version, storageConfigured: storageConfigured}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storage := "disabled"
	if h.storageConfigured {
		storage = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"storage": storage,
	})
}
