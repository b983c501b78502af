// File: internal/handler/errors.go
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"sweet-shop/internal/api"
	"sweet-shop/internal/apperror"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler renders every error as {"error": "..."}. Application
// errors keep their public message; anything unexpected becomes a logged 500.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, api.ErrorResponse{Error: msg})
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}

func errorResponse(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, "Internal server error"
		}
		msg := http.StatusText(he.Code)
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case fmt.Stringer:
			msg = m.String()
		}
		return he.Code, msg
	}
	return apperror.HTTPStatus(err), apperror.PublicMessage(err)
}

// BindAndValidate binds the request body into req and runs the echo validator.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperror.Validation(api.ValidationMessage(err))
	}
	return nil
}
