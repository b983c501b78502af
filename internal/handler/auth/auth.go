// File: internal/handler/auth/auth.go
package auth

import (
	"context"
	"net/http"

	"sweet-shop/internal/api"
	"sweet-shop/internal/handler"
	"sweet-shop/internal/service"

	"github.com/labstack/echo/v4"
)

// Authenticator is the part of service.AuthService the handlers call.
type Authenticator interface {
	Register(ctx context.Context, email, password, name string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

func authResponse(res *service.AuthResult) api.AuthResponse {
	return api.AuthResponse{User: api.NewUserResponse(res.User), Token: res.Token}
}

// RegisterHandler creates a regular user account and signs it in
// @Summary     Register
// @Description Creates a user with role "user" and returns it with a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "New account"
// @Success     201  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /api/auth/register [post]
func RegisterHandler(svc Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		res, err := svc.Register(c.Request().Context(), req.Email, req.Password, req.Name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, authResponse(res))
	}
}

// LoginHandler checks email and password and returns a session token
// @Summary     Login
// @Description Unknown email and wrong password both answer 401 "Invalid credentials"
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "Credentials"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /api/auth/login [post]
func LoginHandler(svc Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		res, err := svc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, authResponse(res))
	}
}
