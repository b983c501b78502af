// File: internal/handler/health.go
package handler

import (
	"context"
	"net/http"
	"time"

	"sweet-shop/internal/api"
	"sweet-shop/internal/cache"
	"sweet-shop/internal/database"

	"github.com/labstack/echo/v4"
)

const readyTimeout = 2 * time.Second

var timeNow = time.Now

// HealthHandler reports that the process is up. It touches no dependency.
// @Summary     Liveness check
// @Description Returns OK and the server time
// @Tags        health
// @Produce     json
// @Success     200 {object} api.HealthResponse
// @Router      /health [get]
func HealthHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.HealthResponse{Status: "OK", Timestamp: timeNow().UTC()})
	}
}

// ReadyHandler pings the database and, when configured, Redis.
// @Summary     Readiness check
// @Description Pings PostgreSQL and Redis; 503 when either is unreachable
// @Tags        health
// @Produce     json
// @Success     200 {object} api.ReadyResponse
// @Failure     503 {object} api.ReadyResponse
// @Router      /health/ready [get]
func ReadyHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()

		resp := api.ReadyResponse{Status: "OK", Checks: map[string]string{}}
		if err := db.Ping(ctx); err != nil {
			resp.Status = "UNAVAILABLE"
			resp.Checks["database"] = "unhealthy"
		} else {
			resp.Checks["database"] = "ok"
		}
		switch {
		case cch == nil:
			resp.Checks["redis"] = "disabled"
		case cch.Ping(ctx).Err() != nil:
			resp.Status = "UNAVAILABLE"
			resp.Checks["redis"] = "unhealthy"
		default:
			resp.Checks["redis"] = "ok"
		}

		if resp.Status != "OK" {
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		return c.JSON(http.StatusOK, resp)
	}
}
