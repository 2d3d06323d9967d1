// Package webapi provides the HTTP surface of the learnhub currency service.
// It is organized into sub-packages:
// - common: response envelopes, request binding and client IP helpers
// - currency: detection, exchange rate and price localization endpoints
package webapi

import (
	"errors"
	"time"

	"github.com/amirasaad/learnhub/pkg/app"
	"github.com/amirasaad/learnhub/webapi/common"
	currencyweb "github.com/amirasaad/learnhub/webapi/currency"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "learnhub",
		// Forwarding headers from peers outside this list are ignored by
		// common.ClientIP, so rotating X-Forwarded-For cannot dodge the limiter.
		EnableTrustedProxyCheck: true,
		TrustedProxies:          trustedProxies(app),
		ReadTimeout:             10 * time.Second,
		WriteTimeout:            10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, err, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	fiberApp.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// Rate limit per client, keyed the same way the currency endpoints
	// resolve the caller. Forwarding headers count only behind a trusted proxy.
	if rl := app.Config.RateLimit; rl != nil && rl.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          rl.MaxRequests,
			Expiration:   rl.Window,
			KeyGenerator: common.ClientIP,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("LearnHub currency API is running! 🚀")
		},
	)
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	currencyweb.Routes(fiberApp, app.RatesService)
	return fiberApp
}

func trustedProxies(app *app.App) []string {
	if app.Config.Server == nil {
		return nil
	}
	return app.Config.Server.TrustedProxies
}
