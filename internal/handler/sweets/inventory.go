// File: internal/handler/sweets/inventory.go
package sweets

import (
	"context"
	"net/http"

	"sweet-shop/internal/api"
	"sweet-shop/internal/handler"
	"sweet-shop/internal/model"

	"github.com/labstack/echo/v4"
)

type stockChange func(ctx context.Context, actorID, id, qty int) (*model.Sweet, error)

func quantityHandler(change stockChange) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sweetID(c)
		if err != nil {
			return err
		}
		var req api.QuantityRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		qty, err := req.Value()
		if err != nil {
			return err
		}
		sw, err := change(c.Request().Context(), actorID(c), id, qty)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewSweetResponse(sw))
	}
}

// PurchaseSweetHandler takes units out of stock
// @Summary     Purchase sweet
// @Description Fails with 400 "Insufficient quantity" and leaves stock unchanged when too few units remain
// @Tags        inventory
// @Accept      json
// @Produce     json
// @Param       id   path     int                 true "Sweet ID"
// @Param       body body     api.QuantityRequest true "Units to buy"
// @Success     200  {object} api.SweetResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets/{id}/purchase [post]
func PurchaseSweetHandler(svc Catalog) echo.HandlerFunc {
	return quantityHandler(svc.Purchase)
}

// RestockSweetHandler adds units to stock (admin only)
// @Summary     Restock sweet
// @Tags        inventory
// @Accept      json
// @Produce     json
// @Param       id   path     int                 true "Sweet ID"
// @Param       body body     api.QuantityRequest true "Units to add"
// @Success     200  {object} api.SweetResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets/{id}/restock [post]
func RestockSweetHandler(svc Catalog) echo.HandlerFunc {
	return quantityHandler(svc.Restock)
}
