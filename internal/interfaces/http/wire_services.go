package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	assistantUsecases "github.com/fylo-cloud/fylo/internal/application/assistant/usecases"
	orderUsecases "github.com/fylo-cloud/fylo/internal/application/order/usecases"
	pricingServices "github.com/fylo-cloud/fylo/internal/application/pricing/services"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/infrastructure/assistant"
	"github.com/fylo-cloud/fylo/internal/infrastructure/auth"
	"github.com/fylo-cloud/fylo/internal/infrastructure/cache"
	"github.com/fylo-cloud/fylo/internal/infrastructure/email"
	"github.com/fylo-cloud/fylo/internal/infrastructure/pubsub"
	"github.com/fylo-cloud/fylo/internal/infrastructure/ratelimit"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/middleware"
)

const redisPingTimeout = 5 * time.Second

// initRedis connects when redis is configured. Redis backs the change feed
// (driver "redis"), the dashboard stats cache and the rate limiters.
func (c *Container) initRedis() error {
	if !c.cfg.Redis.IsConfigured() {
		c.log.Infow("redis not configured, using in-process rate limiting and no stats cache")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", c.cfg.Redis.GetAddr(), err)
	}

	c.redis = client
	c.log.Infow("redis connection established", "addr", c.cfg.Redis.GetAddr())
	return nil
}

func (c *Container) initChangeFeed() error {
	feedLog := c.log.Named("changefeed")

	switch c.cfg.ChangeFeed.Driver {
	case "", "memory":
		c.feed = pubsub.NewMemoryChangeFeed(feedLog)
	case "redis":
		if c.redis == nil {
			return fmt.Errorf("change feed driver redis requires redis to be configured")
		}
		c.feed = pubsub.NewRedisChangeFeed(c.redis, feedLog)
	case "nats":
		nc, err := pubsub.ConnectNATS(c.cfg.ChangeFeed.NATSURL, feedLog)
		if err != nil {
			return err
		}
		feed := pubsub.NewNATSChangeFeed(nc, feedLog)
		c.feed = feed
		c.closeFeed = feed.Close
	default:
		return fmt.Errorf("unknown change feed driver %q", c.cfg.ChangeFeed.Driver)
	}

	c.log.Infow("order change feed ready", "driver", c.cfg.ChangeFeed.Driver)
	return nil
}

func (c *Container) initPricing() error {
	tariff, err := pricingServices.TariffFromConfig(c.cfg.Pricing)
	if err != nil {
		return err
	}
	c.engineSvc = pricing.NewEngine(tariff)
	return nil
}

func (c *Container) initCaches() {
	if c.redis == nil {
		return
	}
	c.dashboardStatsCache = cache.NewRedisDashboardStatsCache(c.redis, c.cfg.Dashboard.StatsCacheTTL, c.log.Named("cache"))
}

func (c *Container) initMiddlewares() {
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	var limiter ratelimit.RateLimiter
	if c.redis != nil {
		limiter = ratelimit.NewRedisRateLimiter(c.redis, "fylo:ratelimit")
	} else {
		limiter = ratelimit.NewMemoryRateLimiter()
	}
	c.orderRateLimiter = middleware.NewRateLimiter(limiter, "orders", c.cfg.RateLimit.OrdersPerMinute, c.log)
	c.assistantRateLimiter = middleware.NewRateLimiter(limiter, "assistant", c.cfg.RateLimit.AssistantPerMinute, c.log)
}

// orderNotifier returns nil unless SMTP is configured.
func (c *Container) orderNotifier() orderUsecases.OrderNotifier {
	if !c.cfg.Email.IsConfigured() {
		return nil
	}
	return email.NewSMTPOrderNotifier(c.cfg.Email, c.cfg.Pricing.Currency, c.log.Named("email"))
}

// textGenerator returns nil unless an assistant key is configured.
func (c *Container) textGenerator() assistantUsecases.TextGenerator {
	client := assistant.NewGeminiClient(c.cfg.Assistant, c.log.Named("assistant"))
	if client == nil {
		c.log.Warnw("assistant api key not configured, assistant requests will fail")
		return nil
	}
	return client
}
