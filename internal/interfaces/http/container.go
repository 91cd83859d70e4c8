package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/infrastructure/auth"
	"github.com/fylo-cloud/fylo/internal/infrastructure/cache"
	"github.com/fylo-cloud/fylo/internal/infrastructure/config"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/middleware"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// Container holds every dependency of the HTTP server. Sections are wired in
// order by NewContainer: infrastructure, repositories, use cases, handlers.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Order change distribution
	feed      order.ChangeFeed
	closeFeed func()

	// Pricing
	engineSvc *pricing.Engine

	// Repositories
	repos *repositories

	// Caches
	dashboardStatsCache cache.DashboardStatsCache

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	orderRateLimiter     *middleware.RateLimiter
	assistantRateLimiter *middleware.RateLimiter

	jwtSvc *auth.JWTService
}

// NewContainer wires the application. db is nil when no order store is
// configured; the order endpoints then report themselves unavailable.
func NewContainer(cfg *config.Config, db *gorm.DB, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}
	c.initRepositories()
	c.initUseCases()
	c.initHandlers()
	c.setupRoutes()

	return c, nil
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// StorageConfigured reports whether orders are persisted.
func (c *Container) StorageConfigured() bool {
	return c.db != nil
}

// CloseStreams ends every open admin order stream.
func (c *Container) CloseStreams() {
	c.hdlrs.orderStreamHandler.Close()
}

// Shutdown releases connections held by the container. Open order streams
// end when their subscriptions are closed with the feed.
func (c *Container) Shutdown(ctx context.Context) {
	if c.closeFeed != nil {
		c.closeFeed()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
	c.log.Infow("container shut down")
}

func (c *Container) initInfrastructure() error {
	if err := c.initRedis(); err != nil {
		return err
	}
	if err := c.initChangeFeed(); err != nil {
		return err
	}
	if err := c.initPricing(); err != nil {
		return fmt.Errorf("invalid pricing configuration: %w", err)
	}
	c.initCaches()
	c.initMiddlewares()
	return nil
}
