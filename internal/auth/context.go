package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "baldguard/internal/errors"
)

// CurrentClaims returns the session claims attached to the request by the
// JWT middleware.
func CurrentClaims(c echo.Context) (*Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}
