package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/interfaces/http/handlers"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	AdminOrderHandler  *handlers.AdminOrderHandler
	OrderStreamHandler *handlers.OrderStreamHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// SetupAdminRoutes configures the admin panel API.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.GET("/dashboard", cfg.AdminOrderHandler.Dashboard)

		// /stream must come before /:id
		admin.GET("/orders", cfg.AdminOrderHandler.List)
		admin.GET("/orders/stream", cfg.OrderStreamHandler.Stream)
		admin.PATCH("/orders/:id/status", cfg.AdminOrderHandler.UpdateStatus)
		admin.DELETE("/orders/:id", cfg.AdminOrderHandler.Delete)
	}
}
