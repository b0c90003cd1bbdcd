package auth

import (
	"context"
	"errors"
	"slices"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
)

// Authenticator resolves a bearer access token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, *Claims, error)
}

// Middleware guards a route group with a bearer access token. On success the
// user and claims are available through CurrentUser and CurrentClaims.
func Middleware(a Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, claims, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			SetCurrentUser(c, user, claims)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var ae *apperrors.Error
			if errors.As(err, &ae) {
				return ae
			}
			var pe *echojwt.TokenParsingError
			if errors.As(err, &pe) {
				return apperrors.ErrInvalidToken
			}
			return apperrors.ErrNoToken
		},
	})
}

// RequireRole lets the request through only when the authenticated user holds
// one of roles. It must run after Middleware.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperrors.ErrNoToken
			}
			if !slices.Contains(roles, user.Role) {
				return apperrors.ErrInsufficientRole
			}
			return next(c)
		}
	}
}
