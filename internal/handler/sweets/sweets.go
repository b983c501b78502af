// File: internal/handler/sweets/sweets.go
package sweets

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"sweet-shop/internal/api"
	"sweet-shop/internal/apperror"
	"sweet-shop/internal/handler"
	"sweet-shop/internal/middleware"
	"sweet-shop/internal/model"
	"sweet-shop/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Catalog is the part of service.CatalogService the handlers call.
type Catalog interface {
	Create(ctx context.Context, actorID int, in service.NewSweet) (*model.Sweet, error)
	List(ctx context.Context) ([]model.Sweet, error)
	Get(ctx context.Context, id int) (*model.Sweet, error)
	Search(ctx context.Context, f model.SweetFilter) ([]model.Sweet, error)
	Update(ctx context.Context, actorID, id int, patch service.SweetPatch) (*model.Sweet, error)
	Purchase(ctx context.Context, actorID, id, qty int) (*model.Sweet, error)
	Restock(ctx context.Context, actorID, id, qty int) (*model.Sweet, error)
	Delete(ctx context.Context, actorID, id int) error
}

func sweetID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperror.Validation("Invalid sweet id")
	}
	return id, nil
}

// actorID is the id of the signed-in user, or 0 outside RequireAuth.
func actorID(c echo.Context) int {
	if claims, ok := middleware.CurrentUser(c); ok {
		return claims.ID
	}
	return 0
}

// CreateSweetHandler adds a sweet to the catalog
// @Summary     Create sweet
// @Tags        sweets
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateSweetRequest true "Sweet"
// @Success     201  {object} api.SweetResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets [post]
func CreateSweetHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateSweetRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		in, err := req.ToNewSweet()
		if err != nil {
			return err
		}
		sw, err := svc.Create(c.Request().Context(), actorID(c), in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, api.NewSweetResponse(sw))
	}
}

// ListSweetsHandler returns every sweet, newest first
// @Summary     List sweets
// @Tags        sweets
// @Produce     json
// @Success     200 {array}  api.SweetResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets [get]
func ListSweetsHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewSweetListResponse(list))
	}
}

func priceParam(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.Validation(name + " must be a number")
	}
	return &d, nil
}

// SearchSweetsHandler filters the catalog; all filters are optional and combined with AND
// @Summary     Search sweets
// @Tags        sweets
// @Produce     json
// @Param       name     query    string false "Case-insensitive substring of the name"
// @Param       category query    string false "Exact category"
// @Param       minPrice query    number false "Inclusive lower price bound"
// @Param       maxPrice query    number false "Inclusive upper price bound"
// @Success     200      {array}  api.SweetResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets/search [get]
func SearchSweetsHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		minPrice, err := priceParam(c, "minPrice")
		if err != nil {
			return err
		}
		maxPrice, err := priceParam(c, "maxPrice")
		if err != nil {
			return err
		}
		list, err := svc.Search(c.Request().Context(), model.SweetFilter{
			Name:     c.QueryParam("name"),
			Category: c.QueryParam("category"),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewSweetListResponse(list))
	}
}

// GetSweetHandler returns one sweet
// @Summary     Get sweet
// @Tags        sweets
// @Produce     json
// @Param       id  path     int true "Sweet ID"
// @Success     200 {object} api.SweetResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets/{id} [get]
func GetSweetHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sweetID(c)
		if err != nil {
			return err
		}
		sw, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewSweetResponse(sw))
	}
}

// UpdateSweetHandler changes the given fields of a sweet
// @Summary     Update sweet
// @Description Omitted fields keep their stored value
// @Tags        sweets
// @Accept      json
// @Produce     json
// @Param       id   path     int                    true "Sweet ID"
// @Param       body body     api.UpdateSweetRequest true "Fields to change"
// @Success     200  {object} api.SweetResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets/{id} [put]
func UpdateSweetHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sweetID(c)
		if err != nil {
			return err
		}
		var req api.UpdateSweetRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		patch, err := req.ToPatch()
		if err != nil {
			return err
		}
		sw, err := svc.Update(c.Request().Context(), actorID(c), id, patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.NewSweetResponse(sw))
	}
}

// DeleteSweetHandler removes a sweet (admin only)
// @Summary     Delete sweet
// @Tags        sweets
// @Produce     json
// @Param       id  path     int true "Sweet ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /api/sweets/{id} [delete]
func DeleteSweetHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sweetID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), actorID(c), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Sweet deleted successfully"})
	}
}
