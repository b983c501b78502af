// File: internal/router/router.go
package router

import (
	"sweet-shop/internal/cache"
	"sweet-shop/internal/database"
	"sweet-shop/internal/handler"
	"sweet-shop/internal/handler/auth"
	"sweet-shop/internal/handler/sweets"
	"sweet-shop/internal/metrics"
	"sweet-shop/internal/middleware"
	"sweet-shop/web"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Deps are the collaborators the routes need. Cache and Metrics may be nil.
type Deps struct {
	DB      database.DB
	Cache   cache.Cache
	Tokens  middleware.TokenVerifier
	Auth    auth.Authenticator
	Catalog sweets.Catalog
	Metrics *metrics.Metrics
}

// Setup registers every route.
func Setup(e *echo.Echo, d Deps) {
	e.GET("/health", handler.HealthHandler())
	e.GET("/health/ready", handler.ReadyHandler(d.DB, d.Cache))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.POST("/auth/register", auth.RegisterHandler(d.Auth))
	api.POST("/auth/login", auth.LoginHandler(d.Auth))

	// every catalog route needs a session; restock and delete need an admin
	apiSweets := api.Group("/sweets", middleware.RequireAuth(d.Tokens))
	apiSweets.POST("", sweets.CreateSweetHandler(d.Catalog))
	apiSweets.GET("", sweets.ListSweetsHandler(d.Catalog))
	apiSweets.GET("/search", sweets.SearchSweetsHandler(d.Catalog))
	apiSweets.GET("/:id", sweets.GetSweetHandler(d.Catalog))
	apiSweets.PUT("/:id", sweets.UpdateSweetHandler(d.Catalog))
	apiSweets.POST("/:id/purchase", sweets.PurchaseSweetHandler(d.Catalog))
	apiSweets.POST("/:id/restock", sweets.RestockSweetHandler(d.Catalog), middleware.RequireAdmin)
	apiSweets.DELETE("/:id", sweets.DeleteSweetHandler(d.Catalog), middleware.RequireAdmin)

	// browser dashboard
	e.StaticFS("/", web.FS())
}
