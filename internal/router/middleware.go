// File: internal/router/middleware.go
package router

import (
	"sweet-shop/internal/handler"
	"sweet-shop/internal/metrics"
	"sweet-shop/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configure the global middleware chain.
type Options struct {
	Log         *zap.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64
	BodyLimit string
}

// Use installs the error handler and the global middleware chain on e.
func Use(e *echo.Echo, o Options) {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.BodyLimit == "" {
		o.BodyLimit = "1M"
	}
	if len(o.CORSOrigins) == 0 {
		o.CORSOrigins = []string{"*"}
	}

	e.HTTPErrorHandler = handler.HTTPErrorHandler(o.Log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(o.Log))
	// inside the logger so a recovered panic is logged as a 500
	e.Use(echomw.Recover())
	if o.Metrics != nil {
		e.Use(o.Metrics.Middleware())
	}
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: o.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit(o.BodyLimit))
	if o.RateLimit > 0 {
		burst := int(o.RateLimit)
		if burst < 1 {
			burst = 1
		}
		e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStoreWithConfig(
			echomw.RateLimiterMemoryStoreConfig{Rate: rate.Limit(o.RateLimit), Burst: burst * 2},
		)))
	}
}
