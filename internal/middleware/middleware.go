package middleware

import (
	"strings"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// TokenVerifier decodes a bearer token into session claims.
type TokenVerifier interface {
	Verify(token string) (*service.Claims, error)
}

func extractClaims(c echo.Context, tokens TokenVerifier) (*service.Claims, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperror.Auth("No token provided")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, apperror.Auth("No token provided")
	}
	claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.KindAuth, Message: "Invalid token", Err: err}
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// claims under ContextUserKey.
func RequireAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, tokens)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := CurrentUser(c)
		if !ok {
			return apperror.Auth("No token provided")
		}
		if !claims.IsAdmin() {
			return apperror.Authorization("Admin access required")
		}
		return next(c)
	}
}

// CurrentUser returns the claims RequireAuth stored on c.
func CurrentUser(c echo.Context) (*service.Claims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.Claims)
	return claims, ok && claims != nil
}
