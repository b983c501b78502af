package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/events"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/sweets/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/fail", func(c echo.Context) error { return apperror.NotFound("Sweet not found") })
	e.GET("/api/teapot", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })
	e.GET("/api/boom", func(c echo.Context) error { return errors.New("boom") })

	for _, path := range []string{"/api/sweets/1", "/api/sweets/2", "/api/fail", "/api/teapot", "/api/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/sweets/:id", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/fail", "404")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/teapot", "418")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/boom", "500")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestEmitCountsInventory(t *testing.T) {
	m := New()
	m.Emit(events.InventoryEvent{Type: events.SweetPurchased, Delta: -3})
	m.Emit(events.InventoryEvent{Type: events.SweetPurchased, Delta: -2})
	m.Emit(events.InventoryEvent{Type: events.SweetRestocked, Delta: 4})
	m.Emit(events.InventoryEvent{Type: events.SweetCreated})

	require.Equal(t, 5.0, testutil.ToFloat64(m.unitsSold))
	require.Equal(t, 4.0, testutil.ToFloat64(m.unitsRestocked))
	require.Equal(t, 2.0, testutil.ToFloat64(m.inventoryEvents.WithLabelValues("sweet.purchased")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.inventoryEvents.WithLabelValues("sweet.created")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Emit(events.InventoryEvent{Type: events.SweetDeleted})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, `sweet_shop_inventory_events_total{type="sweet.deleted"} 1`))
	require.Contains(t, body, "go_goroutines")
}
