package middleware

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"marketplace/internal/auth"
	"marketplace/internal/authz"
	apperrors "marketplace/internal/errors"
)

// ClaimsKey is where the bearer middleware stores *auth.Claims on the echo context.
const ClaimsKey = "user"

// Authenticator turns a raw bearer token into claims, rejecting revoked tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid, unrevoked bearer access token.
func RequireAuth(authenticator Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authenticator.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: apperrors.ErrUnauthenticated.Error(),
				Code:    "UNAUTHENTICATED",
			})
		},
	})
}

// ClaimsFrom returns the claims stored by RequireAuth.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// IdentityFrom returns the authenticated requester, if any.
func IdentityFrom(c echo.Context) (authz.Identity, bool) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return authz.Identity{}, false
	}
	return authz.Identity{UserID: claims.UserID, Email: claims.Email}, true
}
