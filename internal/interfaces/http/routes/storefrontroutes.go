package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fylo-cloud/fylo/internal/interfaces/http/handlers"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/middleware"
)

// StorefrontRouteConfig holds dependencies for the public configurator routes.
type StorefrontRouteConfig struct {
	PricingHandler       *handlers.PricingHandler
	HostingPlanHandler   *handlers.HostingPlanHandler
	AssistantHandler     *handlers.AssistantHandler
	OrderRateLimiter     *middleware.RateLimiter
	AssistantRateLimiter *middleware.RateLimiter
}

// SetupStorefrontRoutes configures the unauthenticated storefront API.
func SetupStorefrontRoutes(engine *gin.Engine, cfg *StorefrontRouteConfig) {
	api := engine.Group("/api")

	pricing := api.Group("/pricing")
	{
		pricing.GET("/catalog", cfg.PricingHandler.Catalog)
		pricing.POST("/quote", cfg.PricingHandler.Quote)
	}

	api.POST("/hosting-plans", cfg.OrderRateLimiter.Limit(), cfg.HostingPlanHandler.Create)
	api.POST("/ai-assistant", cfg.AssistantRateLimiter.Limit(), cfg.AssistantHandler.Ask)
}
