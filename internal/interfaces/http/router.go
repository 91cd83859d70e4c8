package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fylo-cloud/fylo/internal/interfaces/http/middleware"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/routes"
)

// setupRoutes configures all HTTP routes
func (c *Container) setupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupStorefrontRoutes(c.engine, &routes.StorefrontRouteConfig{
		PricingHandler:       c.hdlrs.pricingHandler,
		HostingPlanHandler:   c.hdlrs.hostingPlanHandler,
		AssistantHandler:     c.hdlrs.assistantHandler,
		OrderRateLimiter:     c.orderRateLimiter,
		AssistantRateLimiter: c.assistantRateLimiter,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		AdminOrderHandler:  c.hdlrs.adminOrderHandler,
		OrderStreamHandler: c.hdlrs.orderStreamHandler,
		AuthMiddleware:     c.authMiddleware,
	})
}
