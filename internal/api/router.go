package api

import (
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// ServerConfig holds the settings of the HTTP surface.
type ServerConfig struct {
	Service   string
	JWTSecret string
	Rate      float64
	Burst     int
	ExpiresIn time.Duration
}

type Handlers struct {
	Channels  *ChannelHandler
	Pricing   *PricingHandler
	Discounts *DiscountHandler
	Webhooks  *WebhookHandler
}

// NewServer builds the echo instance with middleware and routes.
func NewServer(cfg ServerConfig, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.Rate),
				Burst:     cfg.Burst,
				ExpiresIn: cfg.ExpiresIn,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": cfg.Service,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Storefront webhooks are not signed with the API token.
	webhooks := e.Group("/webhooks")
	webhooks.POST("/product-updated", h.Webhooks.ProductUpdated)
	webhooks.POST("/channel-created", h.Webhooks.ChannelCreated)

	api := e.Group("/api", echojwt.JWT([]byte(cfg.JWTSecret)))

	api.GET("/channels", h.Channels.ListChannels)
	api.POST("/channels/markup", h.Channels.SetMarkup)

	api.POST("/prices/calculate", h.Pricing.Calculate)
	api.POST("/prices/batch-calculate", h.Pricing.BatchCalculate)
	api.POST("/prices/markup", h.Pricing.Markup)
	api.POST("/prices/batch-markup", h.Pricing.BatchMarkup)

	api.GET("/products/:id/discounts", h.Discounts.GetDiscounts)
	api.PUT("/products/:id/discounts", h.Discounts.SetDiscounts)
	api.POST("/products/batch-set-discounts", h.Discounts.BatchSetDiscounts)

	return e
}
