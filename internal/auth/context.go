package auth

import (
	"github.com/labstack/echo/v4"

	"trivedia/internal/model"
)

const (
	userContextKey   = "currentUser"
	claimsContextKey = "tokenClaims"
)

// SetCurrentUser stores the authenticated user and token claims on c.
func SetCurrentUser(c echo.Context, user *model.User, claims *Claims) {
	c.Set(userContextKey, user)
	c.Set(claimsContextKey, claims)
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userContextKey).(*model.User)
	return u
}

// CurrentClaims returns the claims of the presented access token.
func CurrentClaims(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}
